package ports

import (
	"context"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/routing"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// Webhook is a registered outbound callback target, the persisted form of
// internal/gateway/callback.Callback.
type Webhook struct {
	ID      uuid.UUID
	Name    string
	URL     string
	Methods []string
}

type WebhookFetching interface {
	List(ctx context.Context) (FetchManyResponseKind[Webhook], *mycerr.Error)
}

type WebhookRegistration interface {
	Create(ctx context.Context, w Webhook) (CreateResponseKind[Webhook], *mycerr.Error)
}

type WebhookUpdating interface {
	Update(ctx context.Context, w Webhook) (UpdatingResponseKind[Webhook], *mycerr.Error)
}

type WebhookDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}

// ErrorCode is the persisted documentation record behind a mycerr code,
// mirroring original_source's NativeErrorCodes::as_doc catalogue so it can
// be surfaced over an admin endpoint.
type ErrorCode struct {
	Code       string
	Message    string
	Details    string
	IsInternal bool
}

type ErrorCodeFetching interface {
	Get(ctx context.Context, code string) (FetchResponseKind[ErrorCode], *mycerr.Error)
	List(ctx context.Context) (FetchManyResponseKind[ErrorCode], *mycerr.Error)
}

// RouteFetching lets the gateway reload its route table from storage
// rather than only from the static config file.
type RouteFetching interface {
	List(ctx context.Context) (FetchManyResponseKind[routing.Route], *mycerr.Error)
}

type RouteRegistration interface {
	Create(ctx context.Context, route routing.Route) (CreateResponseKind[routing.Route], *mycerr.Error)
}

type RouteUpdating interface {
	Update(ctx context.Context, route routing.Route) (UpdatingResponseKind[routing.Route], *mycerr.Error)
}

type RouteDeletion interface {
	Delete(ctx context.Context, id uuid.UUID) (DeletionResponseKind, *mycerr.Error)
}
