package ports

import (
	"context"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

type GuestRoleFetching interface {
	Get(ctx context.Context, id uuid.UUID) (FetchResponseKind[dtos.GuestRole], *mycerr.Error)
	List(ctx context.Context) (FetchManyResponseKind[dtos.GuestRole], *mycerr.Error)
}

type GuestRoleRegistration interface {
	Create(ctx context.Context, role dtos.GuestRole) (CreateResponseKind[dtos.GuestRole], *mycerr.Error)
}

type GuestRoleUpdating interface {
	Update(ctx context.Context, role dtos.GuestRole) (UpdatingResponseKind[dtos.GuestRole], *mycerr.Error)
	InsertChild(ctx context.Context, roleID, childID uuid.UUID) (UpdatingResponseKind[dtos.GuestRole], *mycerr.Error)
	RemoveChild(ctx context.Context, roleID, childID uuid.UUID) (UpdatingResponseKind[dtos.GuestRole], *mycerr.Error)
}

type GuestRoleDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}

// GuestUserOnAccount is the join record between a GuestRole and the
// Account it was granted on, carrying the permit/deny flag overrides
// UpdateFlagsFromSubscriptionAccount mutates.
type GuestUserOnAccount struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	GuestRoleID uuid.UUID
	UserID      uuid.UUID
	PermitFlags []string
	DenyFlags   []string
	Verified    bool
}

type GuestUserOnAccountFetching interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) (FetchManyResponseKind[GuestUserOnAccount], *mycerr.Error)
	ListByGuestRoleID(ctx context.Context, guestRoleID, accountID uuid.UUID) (FetchManyResponseKind[GuestUserOnAccount], *mycerr.Error)
	// ListByUser returns every grant made to userID, across every account
	// — the Profile builder's source for LicensedResources.
	ListByUser(ctx context.Context, userID uuid.UUID) (FetchManyResponseKind[GuestUserOnAccount], *mycerr.Error)
}

type GuestUserOnAccountRegistration interface {
	Create(ctx context.Context, g GuestUserOnAccount) (CreateResponseKind[GuestUserOnAccount], *mycerr.Error)
}

type GuestUserOnAccountUpdating interface {
	Update(ctx context.Context, g GuestUserOnAccount) (UpdatingResponseKind[GuestUserOnAccount], *mycerr.Error)
}

type GuestUserOnAccountDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}
