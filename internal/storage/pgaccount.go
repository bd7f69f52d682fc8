package storage

import (
	"context"
	"errors"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAccountStore implements ports.AccountFetching/Registration/
// Updating/Deletion. RelatedAccounts narrowing (the related parameter on
// Get/List) is applied in Go after the row is loaded rather than pushed
// into the WHERE clause — these tables carry no row-level security
// policies (see DESIGN.md), so the narrowing the teacher's Postgres RLS
// policies enforced at the database layer is reproduced here in the
// adapter instead.
type PostgresAccountStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{Pool: pool}
}

const accountColumns = `
	id, name, slug, tenant_id, type_kind, type_role_name, type_read_role_id,
	type_write_role_id, type_actor, is_active, is_checked, is_archived,
	is_deleted, is_default, created, updated
`

func scanAccount(row pgx.Row) (dtos.Account, error) {
	var a dtos.Account
	var kind int
	var roleName, actor string
	var readRoleID, writeRoleID uuid.NullUUID

	err := row.Scan(
		&a.ID, &a.Name, &a.Slug, &a.TenantID, &kind, &roleName, &readRoleID,
		&writeRoleID, &actor, &a.IsActive, &a.IsChecked, &a.IsArchived,
		&a.IsDeleted, &a.IsDefault, &a.Created, &a.Updated,
	)
	if err != nil {
		return dtos.Account{}, err
	}

	a.AccountType = dtos.AccountType{Kind: dtos.AccountTypeKind(kind), RoleName: roleName, Actor: actor}
	if a.TenantID != nil {
		a.AccountType.TenantID = *a.TenantID
	}
	if readRoleID.Valid {
		a.AccountType.ReadRoleID = readRoleID.UUID
	}
	if writeRoleID.Valid {
		a.AccountType.WriteRoleID = writeRoleID.UUID
	}
	return a, nil
}

func (s *PostgresAccountStore) loadOwners(ctx context.Context, accountID uuid.UUID) ([]dtos.User, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users u
		JOIN account_owners ao ON ao.user_id = u.id
		WHERE ao.account_id = $1
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []dtos.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		owners = append(owners, u)
	}
	return owners, rows.Err()
}

func (s *PostgresAccountStore) hydrate(ctx context.Context, a dtos.Account) (dtos.Account, *mycerr.Error) {
	owners, err := s.loadOwners(ctx, a.ID)
	if err != nil {
		return dtos.Account{}, mycerr.FetchingErr("failed to load account owners").WithPrevious(err)
	}
	a.Owners = owners
	return a, nil
}

func (s *PostgresAccountStore) Get(ctx context.Context, id uuid.UUID, related relatedaccounts.RelatedAccounts) (ports.FetchResponseKind[dtos.Account], *mycerr.Error) {
	if !related.HasAccount(id) {
		return ports.FetchResponseKind[dtos.Account]{}, mycerr.ExecutionErr("account not in authorised set").WithCode(mycerr.MYC00019)
	}

	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.NotFound[dtos.Account](), nil
	}
	if err != nil {
		return ports.FetchResponseKind[dtos.Account]{}, mycerr.FetchingErr("failed to fetch account").WithPrevious(err)
	}

	hydrated, merr := s.hydrate(ctx, a)
	if merr != nil {
		return ports.FetchResponseKind[dtos.Account]{}, merr
	}
	return ports.Found(hydrated), nil
}

func (s *PostgresAccountStore) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (ports.FetchResponseKind[dtos.Account], *mycerr.Error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id = $1 AND slug = $2`, tenantID, slug)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.NotFound[dtos.Account](), nil
	}
	if err != nil {
		return ports.FetchResponseKind[dtos.Account]{}, mycerr.FetchingErr("failed to fetch account by slug").WithPrevious(err)
	}

	hydrated, merr := s.hydrate(ctx, a)
	if merr != nil {
		return ports.FetchResponseKind[dtos.Account]{}, merr
	}
	return ports.Found(hydrated), nil
}

func (s *PostgresAccountStore) List(ctx context.Context, related relatedaccounts.RelatedAccounts, filter ports.AccountFilter) (ports.FetchManyResponseKind[dtos.Account], *mycerr.Error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ($1::uuid IS NULL OR tenant_id = $1) AND slug LIKE $2 AND (is_archived = FALSE OR $3)`
	rows, err := s.Pool.Query(ctx, query, filter.TenantID, filter.SlugPrefix+"%", filter.IncludeArchived)
	if err != nil {
		return ports.FetchManyResponseKind[dtos.Account]{}, mycerr.FetchingErr("failed to list accounts").WithPrevious(err)
	}
	defer rows.Close()

	var out []dtos.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return ports.FetchManyResponseKind[dtos.Account]{}, mycerr.FetchingErr("failed to scan account").WithPrevious(err)
		}
		if !related.HasAccount(a.ID) {
			continue
		}
		hydrated, merr := s.hydrate(ctx, a)
		if merr != nil {
			return ports.FetchManyResponseKind[dtos.Account]{}, merr
		}
		out = append(out, hydrated)
	}
	return ports.FoundMany(out), nil
}

// ListByOwner bypasses RelatedAccounts narrowing entirely — it is the
// Profile builder's own lookup of "what does this user own", run before
// any RelatedAccounts grant exists to narrow against.
func (s *PostgresAccountStore) ListByOwner(ctx context.Context, userID uuid.UUID) (ports.FetchManyResponseKind[dtos.Account], *mycerr.Error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts a
		JOIN account_owners ao ON ao.account_id = a.id
		WHERE ao.user_id = $1
	`, userID)
	if err != nil {
		return ports.FetchManyResponseKind[dtos.Account]{}, mycerr.FetchingErr("failed to list accounts by owner").WithPrevious(err)
	}
	defer rows.Close()

	var out []dtos.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return ports.FetchManyResponseKind[dtos.Account]{}, mycerr.FetchingErr("failed to scan account").WithPrevious(err)
		}
		hydrated, merr := s.hydrate(ctx, a)
		if merr != nil {
			return ports.FetchManyResponseKind[dtos.Account]{}, merr
		}
		out = append(out, hydrated)
	}
	return ports.FoundMany(out), nil
}

func (s *PostgresAccountStore) Create(ctx context.Context, a dtos.Account) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return ports.NotCreated[dtos.Account](err.Error()), mycerr.CreationErr("failed to begin transaction").WithPrevious(err)
	}
	defer tx.Rollback(ctx)

	t := a.AccountType
	var readRoleID, writeRoleID *uuid.UUID
	if t.ReadRoleID != uuid.Nil {
		readRoleID = &t.ReadRoleID
	}
	if t.WriteRoleID != uuid.Nil {
		writeRoleID = &t.WriteRoleID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		a.ID, a.Name, a.Slug, a.TenantID, int(t.Kind), t.RoleName, readRoleID,
		writeRoleID, t.Actor, a.IsActive, a.IsChecked, a.IsArchived,
		a.IsDeleted, a.IsDefault, a.Created, a.Updated,
	)
	if err != nil {
		return ports.NotCreated[dtos.Account](err.Error()), mycerr.CreationErr("failed to create account").WithPrevious(err)
	}

	for _, owner := range a.Owners {
		if _, err := tx.Exec(ctx, `INSERT INTO account_owners (account_id, user_id) VALUES ($1, $2)`, a.ID, owner.ID); err != nil {
			return ports.NotCreated[dtos.Account](err.Error()), mycerr.CreationErr("failed to attach account owner").WithPrevious(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ports.NotCreated[dtos.Account](err.Error()), mycerr.CreationErr("failed to commit account creation").WithPrevious(err)
	}
	return ports.Created(a), nil
}

func (s *PostgresAccountStore) Update(ctx context.Context, a dtos.Account) (ports.UpdatingResponseKind[dtos.Account], *mycerr.Error) {
	t := a.AccountType
	var readRoleID, writeRoleID *uuid.UUID
	if t.ReadRoleID != uuid.Nil {
		readRoleID = &t.ReadRoleID
	}
	if t.WriteRoleID != uuid.Nil {
		writeRoleID = &t.WriteRoleID
	}

	tag, err := s.Pool.Exec(ctx, `
		UPDATE accounts SET
			name = $2, slug = $3, tenant_id = $4, type_kind = $5, type_role_name = $6,
			type_read_role_id = $7, type_write_role_id = $8, type_actor = $9,
			is_active = $10, is_checked = $11, is_archived = $12, is_deleted = $13,
			is_default = $14, updated = $15
		WHERE id = $1
	`,
		a.ID, a.Name, a.Slug, a.TenantID, int(t.Kind), t.RoleName,
		readRoleID, writeRoleID, t.Actor,
		a.IsActive, a.IsChecked, a.IsArchived, a.IsDeleted, a.IsDefault, a.Updated,
	)
	if err != nil {
		return ports.NotUpdated[dtos.Account](err.Error()), mycerr.UpdatingErr("failed to update account").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotUpdated[dtos.Account]("account not found"), nil
	}
	return ports.Updated(a), nil
}

func (s *PostgresAccountStore) Delete(ctx context.Context, id uuid.UUID) (ports.DeletionResponseKind, *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return ports.NotDeleted(err.Error()), mycerr.DeletionErr("failed to delete account").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotDeleted("account not found"), nil
	}
	return ports.Deleted(), nil
}
