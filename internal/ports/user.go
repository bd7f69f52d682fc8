package ports

import (
	"context"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

type UserFetching interface {
	Get(ctx context.Context, id uuid.UUID) (FetchResponseKind[dtos.User], *mycerr.Error)
	GetByEmail(ctx context.Context, email dtos.Email) (FetchResponseKind[dtos.User], *mycerr.Error)
}

type UserRegistration interface {
	Create(ctx context.Context, user dtos.User) (CreateResponseKind[dtos.User], *mycerr.Error)
}

type UserUpdating interface {
	Update(ctx context.Context, user dtos.User) (UpdatingResponseKind[dtos.User], *mycerr.Error)
}

type UserDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}
