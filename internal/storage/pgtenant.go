package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTenantStore implements ports.TenantFetching/Registration/
// Updating/Deletion. Meta is stored as a single jsonb column; status
// history is a small append-only side table, matching Tenant.Status'
// append-only semantics (dtos.Tenant.CurrentStatus reads the last entry).
type PostgresTenantStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresTenantStore(pool *pgxpool.Pool) *PostgresTenantStore {
	return &PostgresTenantStore{Pool: pool}
}

func (s *PostgresTenantStore) loadOwners(ctx context.Context, tenantID uuid.UUID) ([]dtos.Owner, error) {
	rows, err := s.Pool.Query(ctx, `SELECT owner_id, owner_email FROM tenant_owners WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []dtos.Owner
	for rows.Next() {
		var o dtos.Owner
		if err := rows.Scan(&o.ID, &o.Email); err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

func (s *PostgresTenantStore) loadStatus(ctx context.Context, tenantID uuid.UUID) ([]dtos.TenantStatus, error) {
	rows, err := s.Pool.Query(ctx, `SELECT kind, since, actor FROM tenant_status_history WHERE tenant_id = $1 ORDER BY since ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []dtos.TenantStatus
	for rows.Next() {
		var st dtos.TenantStatus
		var kind string
		if err := rows.Scan(&kind, &st.Since, &st.Actor); err != nil {
			return nil, err
		}
		st.Kind = dtos.TenantStatusKind(kind)
		history = append(history, st)
	}
	return history, rows.Err()
}

func (s *PostgresTenantStore) hydrate(ctx context.Context, t dtos.Tenant) (dtos.Tenant, *mycerr.Error) {
	owners, err := s.loadOwners(ctx, t.ID)
	if err != nil {
		return dtos.Tenant{}, mycerr.FetchingErr("failed to load tenant owners").WithPrevious(err)
	}
	status, err := s.loadStatus(ctx, t.ID)
	if err != nil {
		return dtos.Tenant{}, mycerr.FetchingErr("failed to load tenant status history").WithPrevious(err)
	}
	t.Owners = owners
	t.Status = status
	return t, nil
}

func scanTenant(row pgx.Row) (dtos.Tenant, error) {
	var t dtos.Tenant
	var metaRaw []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &metaRaw); err != nil {
		return dtos.Tenant{}, err
	}
	if len(metaRaw) > 0 {
		var raw map[string]string
		if err := json.Unmarshal(metaRaw, &raw); err != nil {
			return dtos.Tenant{}, err
		}
		t.Meta = make(map[dtos.TenantMetaKey]string, len(raw))
		for k, v := range raw {
			t.Meta[dtos.TenantMetaKey(k)] = v
		}
	}
	return t, nil
}

func (s *PostgresTenantStore) Get(ctx context.Context, id uuid.UUID) (ports.FetchResponseKind[dtos.Tenant], *mycerr.Error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, description, meta FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.NotFound[dtos.Tenant](), nil
	}
	if err != nil {
		return ports.FetchResponseKind[dtos.Tenant]{}, mycerr.FetchingErr("failed to fetch tenant").WithPrevious(err)
	}
	hydrated, merr := s.hydrate(ctx, t)
	if merr != nil {
		return ports.FetchResponseKind[dtos.Tenant]{}, merr
	}
	return ports.Found(hydrated), nil
}

func (s *PostgresTenantStore) GetByName(ctx context.Context, name string) (ports.FetchResponseKind[dtos.Tenant], *mycerr.Error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, description, meta FROM tenants WHERE name = $1`, name)
	t, err := scanTenant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.NotFound[dtos.Tenant](), nil
	}
	if err != nil {
		return ports.FetchResponseKind[dtos.Tenant]{}, mycerr.FetchingErr("failed to fetch tenant by name").WithPrevious(err)
	}
	hydrated, merr := s.hydrate(ctx, t)
	if merr != nil {
		return ports.FetchResponseKind[dtos.Tenant]{}, merr
	}
	return ports.Found(hydrated), nil
}

func (s *PostgresTenantStore) Create(ctx context.Context, t dtos.Tenant) (ports.CreateResponseKind[dtos.Tenant], *mycerr.Error) {
	meta := make(map[string]string, len(t.Meta))
	for k, v := range t.Meta {
		meta[string(k)] = v
	}
	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return ports.NotCreated[dtos.Tenant](err.Error()), mycerr.CreationErr("failed to encode tenant meta").WithPrevious(err)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return ports.NotCreated[dtos.Tenant](err.Error()), mycerr.CreationErr("failed to begin transaction").WithPrevious(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO tenants (id, name, description, meta) VALUES ($1,$2,$3,$4)`,
		t.ID, t.Name, t.Description, metaRaw); err != nil {
		return ports.NotCreated[dtos.Tenant](err.Error()), mycerr.CreationErr("failed to create tenant").WithPrevious(err)
	}
	for _, owner := range t.Owners {
		if _, err := tx.Exec(ctx, `INSERT INTO tenant_owners (tenant_id, owner_id, owner_email) VALUES ($1,$2,$3)`,
			t.ID, owner.ID, owner.Email); err != nil {
			return ports.NotCreated[dtos.Tenant](err.Error()), mycerr.CreationErr("failed to attach tenant owner").WithPrevious(err)
		}
	}
	for _, st := range t.Status {
		if _, err := tx.Exec(ctx, `INSERT INTO tenant_status_history (tenant_id, kind, since, actor) VALUES ($1,$2,$3,$4)`,
			t.ID, string(st.Kind), st.Since, st.Actor); err != nil {
			return ports.NotCreated[dtos.Tenant](err.Error()), mycerr.CreationErr("failed to record tenant status").WithPrevious(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return ports.NotCreated[dtos.Tenant](err.Error()), mycerr.CreationErr("failed to commit tenant creation").WithPrevious(err)
	}
	return ports.Created(t), nil
}

func (s *PostgresTenantStore) Update(ctx context.Context, t dtos.Tenant) (ports.UpdatingResponseKind[dtos.Tenant], *mycerr.Error) {
	meta := make(map[string]string, len(t.Meta))
	for k, v := range t.Meta {
		meta[string(k)] = v
	}
	metaRaw, err := json.Marshal(meta)
	if err != nil {
		return ports.NotUpdated[dtos.Tenant](err.Error()), mycerr.UpdatingErr("failed to encode tenant meta").WithPrevious(err)
	}

	tag, err := s.Pool.Exec(ctx, `UPDATE tenants SET name = $2, description = $3, meta = $4 WHERE id = $1`,
		t.ID, t.Name, t.Description, metaRaw)
	if err != nil {
		return ports.NotUpdated[dtos.Tenant](err.Error()), mycerr.UpdatingErr("failed to update tenant").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotUpdated[dtos.Tenant]("tenant not found"), nil
	}
	return ports.Updated(t), nil
}

func (s *PostgresTenantStore) Delete(ctx context.Context, id uuid.UUID) (ports.DeletionResponseKind, *mycerr.Error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return ports.NotDeleted(err.Error()), mycerr.DeletionErr("failed to delete tenant").WithPrevious(err)
	}
	if tag.RowsAffected() == 0 {
		return ports.NotDeleted("tenant not found"), nil
	}
	return ports.Deleted(), nil
}

// RecordStatus appends a new status entry, the only mutation
// dtos.Tenant's append-only history model allows.
func (s *PostgresTenantStore) RecordStatus(ctx context.Context, tenantID uuid.UUID, kind dtos.TenantStatusKind, actor uuid.UUID, since time.Time) *mycerr.Error {
	_, err := s.Pool.Exec(ctx, `INSERT INTO tenant_status_history (tenant_id, kind, since, actor) VALUES ($1,$2,$3,$4)`,
		tenantID, string(kind), since, actor)
	if err != nil {
		return mycerr.UpdatingErr("failed to record tenant status").WithPrevious(err)
	}
	return nil
}
