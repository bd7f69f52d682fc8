package ports

import (
	"context"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// AccountFilter narrows AccountFetching.List beyond the caller's
// authorised account set.
type AccountFilter struct {
	TenantID   *uuid.UUID
	SlugPrefix string
	IncludeArchived bool
}

type AccountFetching interface {
	Get(ctx context.Context, id uuid.UUID, related relatedaccounts.RelatedAccounts) (FetchResponseKind[dtos.Account], *mycerr.Error)
	List(ctx context.Context, related relatedaccounts.RelatedAccounts, filter AccountFilter) (FetchManyResponseKind[dtos.Account], *mycerr.Error)
	GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (FetchResponseKind[dtos.Account], *mycerr.Error)
	// ListByOwner returns every account userID is an owner of, unfiltered
	// by any RelatedAccounts grant — it exists for building the Profile a
	// RelatedAccounts grant is derived from, not for a use-case read path.
	ListByOwner(ctx context.Context, userID uuid.UUID) (FetchManyResponseKind[dtos.Account], *mycerr.Error)
}

type AccountRegistration interface {
	Create(ctx context.Context, account dtos.Account) (CreateResponseKind[dtos.Account], *mycerr.Error)
}

type AccountUpdating interface {
	Update(ctx context.Context, account dtos.Account) (UpdatingResponseKind[dtos.Account], *mycerr.Error)
}

type AccountDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}
