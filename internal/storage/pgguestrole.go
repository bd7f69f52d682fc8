package storage

import (
	"context"
	"errors"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGuestRoleStore implements ports.GuestRoleFetching/Registration/
// Updating/Deletion. The role DAG's children are stored as a plain
// uuid[] column; the cycle check itself stays in dtos.DetectRoleCycle,
// never pushed into SQL.
type PostgresGuestRoleStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresGuestRoleStore(pool *pgxpool.Pool) *PostgresGuestRoleStore {
	return &PostgresGuestRoleStore{Pool: pool}
}

func scanGuestRole(row pgx.Row) (dtos.GuestRole, error) {
	var g dtos.GuestRole
	var permission int
	err := row.Scan(&g.ID, &g.Name, &g.Description, &permission, &g.Children)
	if err != nil {
		return dtos.GuestRole{}, err
	}
	g.Permission = dtos.Permission(permission)
	return g, nil
}

func (s *PostgresGuestRoleStore) Get(ctx context.Context, id uuid.UUID) (ports.FetchResponseKind[dtos.GuestRole], *mycerr.Error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, description, permission, children FROM guest_roles WHERE id = $1`, id)
	g, err := scanGuestRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.NotFound[dtos.GuestRole](), nil
	}
	if err != nil {
		return ports.FetchResponseKind[dtos.GuestRole]{}, mycerr.FetchingErr("failed to fetch guest role").WithPrevious(err)
	}
	return ports.Found(g), nil
}

func (s *PostgresGuestRoleStore) List(ctx context.Context) (ports.FetchManyResponseKind[dtos.GuestRole], *mycerr.Error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, description, permission, children FROM guest_roles`)
	if err != nil {
		return ports.FetchManyResponseKind[dtos.GuestRole]{}, mycerr.FetchingErr("failed to list guest roles").WithPrevious(err)
	}
	defer rows.Close()

	var out []dtos.GuestRole
	for rows.Next() {
		g, err := scanGuestRole(rows)
		if err != nil {
			return ports.FetchManyResponseKind[dtos.GuestRole]{}, mycerr.FetchingErr("failed to scan guest role").WithPrevious(err)
		}
		out = append(out, g)
	}
	return ports.FoundMany(out), nil
}

func (s *PostgresGuestRoleStore) Create(ctx context.Context, g dtos.GuestRole) (ports.CreateResponseKind[dtos.GuestRole], *mycerr.Error) {
	_, err := s.Pool.Exec(ctx, `INSERT INTO guest_roles (id, name, description, permission, children) VALUES ($1,$2,$3,$4,$5)`,
		g.ID, g.Name, g.Description, int(g.Permission), g.Children)
	if err != nil {
		return ports.NotCreated[dtos.GuestRole](err.Error()), mycerr.CreationErr("failed to create guest role").WithPrevious(err)
	}
	return ports.Created(g), nil
}

func (s *PostgresGuestRoleStore) Update(ctx context.Context, g dtos.GuestRole) (ports.UpdatingResponseKind[dtos.GuestRole], *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `UPDATE guest_roles SET name = $2, description = $3, permission = $4, children = $5 WHERE id = $1`,
		g.ID, g.Name, g.Description, int(g.Permission), g.Children)
	if err != nil {
		return ports.NotUpdated[dtos.GuestRole](err.Error()), mycerr.UpdatingErr("failed to update guest role").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotUpdated[dtos.GuestRole]("guest role not found"), nil
	}
	return ports.Updated(g), nil
}

func (s *PostgresGuestRoleStore) insertChild(ctx context.Context, roleID, childID uuid.UUID, insert bool) (ports.UpdatingResponseKind[dtos.GuestRole], *mycerr.Error) {
	found, merr := s.Get(ctx, roleID)
	if merr != nil {
		return ports.UpdatingResponseKind[dtos.GuestRole]{}, merr
	}
	if !found.IsFound() {
		return ports.NotUpdated[dtos.GuestRole]("guest role not found"), nil
	}

	roles, merr := s.roleMap(ctx)
	if merr != nil {
		return ports.UpdatingResponseKind[dtos.GuestRole]{}, merr
	}

	role := found.Value()
	if insert {
		updated, mErr := role.InsertChild(roles, childID)
		if mErr != nil {
			return ports.UpdatingResponseKind[dtos.GuestRole]{}, mErr
		}
		role = updated
	} else {
		children := make([]uuid.UUID, 0, len(role.Children))
		for _, c := range role.Children {
			if c != childID {
				children = append(children, c)
			}
		}
		role.Children = children
	}

	return s.Update(ctx, role)
}

func (s *PostgresGuestRoleStore) InsertChild(ctx context.Context, roleID, childID uuid.UUID) (ports.UpdatingResponseKind[dtos.GuestRole], *mycerr.Error) {
	return s.insertChild(ctx, roleID, childID, true)
}

func (s *PostgresGuestRoleStore) RemoveChild(ctx context.Context, roleID, childID uuid.UUID) (ports.UpdatingResponseKind[dtos.GuestRole], *mycerr.Error) {
	return s.insertChild(ctx, roleID, childID, false)
}

func (s *PostgresGuestRoleStore) roleMap(ctx context.Context) (map[uuid.UUID]dtos.GuestRole, *mycerr.Error) {
	listed, merr := s.List(ctx)
	if merr != nil {
		return nil, merr
	}
	roles := make(map[uuid.UUID]dtos.GuestRole, len(listed.Records()))
	for _, r := range listed.Records() {
		roles[r.ID] = r
	}
	return roles, nil
}

func (s *PostgresGuestRoleStore) Delete(ctx context.Context, id uuid.UUID) (ports.DeletionResponseKind, *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM guest_roles WHERE id = $1`, id)
	if err != nil {
		return ports.NotDeleted(err.Error()), mycerr.DeletionErr("failed to delete guest role").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotDeleted("guest role not found"), nil
	}
	return ports.Deleted(), nil
}

// PostgresGuestUserOnAccountStore implements ports.GuestUserOnAccount
// Fetching/Registration/Updating/Deletion.
type PostgresGuestUserOnAccountStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresGuestUserOnAccountStore(pool *pgxpool.Pool) *PostgresGuestUserOnAccountStore {
	return &PostgresGuestUserOnAccountStore{Pool: pool}
}

func scanGuestUserOnAccount(row pgx.Row) (ports.GuestUserOnAccount, error) {
	var g ports.GuestUserOnAccount
	err := row.Scan(&g.ID, &g.AccountID, &g.GuestRoleID, &g.UserID, &g.PermitFlags, &g.DenyFlags, &g.Verified)
	return g, err
}

func (s *PostgresGuestUserOnAccountStore) listBy(ctx context.Context, query string, args ...any) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return ports.FetchManyResponseKind[ports.GuestUserOnAccount]{}, mycerr.FetchingErr("failed to list guest grants").WithPrevious(err)
	}
	defer rows.Close()

	var out []ports.GuestUserOnAccount
	for rows.Next() {
		g, err := scanGuestUserOnAccount(rows)
		if err != nil {
			return ports.FetchManyResponseKind[ports.GuestUserOnAccount]{}, mycerr.FetchingErr("failed to scan guest grant").WithPrevious(err)
		}
		out = append(out, g)
	}
	return ports.FoundMany(out), nil
}

const guestUserOnAccountColumns = `id, account_id, guest_role_id, user_id, permit_flags, deny_flags, verified`

func (s *PostgresGuestUserOnAccountStore) ListByAccount(ctx context.Context, accountID uuid.UUID) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	return s.listBy(ctx, `SELECT `+guestUserOnAccountColumns+` FROM guest_users_on_account WHERE account_id = $1`, accountID)
}

func (s *PostgresGuestUserOnAccountStore) ListByGuestRoleID(ctx context.Context, guestRoleID, accountID uuid.UUID) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	return s.listBy(ctx, `SELECT `+guestUserOnAccountColumns+` FROM guest_users_on_account WHERE guest_role_id = $1 AND account_id = $2`, guestRoleID, accountID)
}

func (s *PostgresGuestUserOnAccountStore) ListByUser(ctx context.Context, userID uuid.UUID) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	return s.listBy(ctx, `SELECT `+guestUserOnAccountColumns+` FROM guest_users_on_account WHERE user_id = $1`, userID)
}

func (s *PostgresGuestUserOnAccountStore) Create(ctx context.Context, g ports.GuestUserOnAccount) (ports.CreateResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO guest_users_on_account (`+guestUserOnAccountColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, g.ID, g.AccountID, g.GuestRoleID, g.UserID, g.PermitFlags, g.DenyFlags, g.Verified)
	if err != nil {
		return ports.NotCreated[ports.GuestUserOnAccount](err.Error()), mycerr.CreationErr("failed to create guest grant").WithPrevious(err)
	}
	return ports.Created(g), nil
}

func (s *PostgresGuestUserOnAccountStore) Update(ctx context.Context, g ports.GuestUserOnAccount) (ports.UpdatingResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE guest_users_on_account SET
			account_id = $2, guest_role_id = $3, user_id = $4,
			permit_flags = $5, deny_flags = $6, verified = $7
		WHERE id = $1
	`, g.ID, g.AccountID, g.GuestRoleID, g.UserID, g.PermitFlags, g.DenyFlags, g.Verified)
	if err != nil {
		return ports.NotUpdated[ports.GuestUserOnAccount](err.Error()), mycerr.UpdatingErr("failed to update guest grant").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotUpdated[ports.GuestUserOnAccount]("guest grant not found"), nil
	}
	return ports.Updated(g), nil
}

func (s *PostgresGuestUserOnAccountStore) Delete(ctx context.Context, id uuid.UUID) (ports.DeletionResponseKind, *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM guest_users_on_account WHERE id = $1`, id)
	if err != nil {
		return ports.NotDeleted(err.Error()), mycerr.DeletionErr("failed to delete guest grant").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotDeleted("guest grant not found"), nil
	}
	return ports.Deleted(), nil
}
