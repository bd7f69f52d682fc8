package ports

import (
	"context"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

type TenantFetching interface {
	Get(ctx context.Context, id uuid.UUID) (FetchResponseKind[dtos.Tenant], *mycerr.Error)
	GetByName(ctx context.Context, name string) (FetchResponseKind[dtos.Tenant], *mycerr.Error)
}

type TenantRegistration interface {
	Create(ctx context.Context, tenant dtos.Tenant) (CreateResponseKind[dtos.Tenant], *mycerr.Error)
}

type TenantUpdating interface {
	Update(ctx context.Context, tenant dtos.Tenant) (UpdatingResponseKind[dtos.Tenant], *mycerr.Error)
}

type TenantDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}

// Tag is a free-form label attachable to an Account or Tenant.
type Tag struct {
	ID    uuid.UUID
	Value string
	Meta  map[string]string
}

type TagFetching interface {
	Get(ctx context.Context, id uuid.UUID) (FetchResponseKind[Tag], *mycerr.Error)
	List(ctx context.Context) (FetchManyResponseKind[Tag], *mycerr.Error)
}

type TagRegistration interface {
	Create(ctx context.Context, tag Tag) (CreateResponseKind[Tag], *mycerr.Error)
}

type TagUpdating interface {
	Update(ctx context.Context, tag Tag) (UpdatingResponseKind[Tag], *mycerr.Error)
}

type TagDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}
