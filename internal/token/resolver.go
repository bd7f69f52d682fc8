package token

import (
	"context"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
)

// Resolver turns an opaque connection string back into the ConnectionScope
// it was minted from, verifying the persisted Token still matches and
// hasn't expired.
type Resolver struct {
	store Store
	now   func() time.Time
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve decodes opaque, loads the matching persisted Token, and checks
// expiry and metadata-kind agreement before returning the scope.
func (r *Resolver) Resolve(ctx context.Context, opaque string) (ConnectionScope, *mycerr.Error) {
	scope, err := DecodeScope(opaque)
	if err != nil {
		return nil, err
	}

	persisted, storeErr := r.store.Get(ctx, opaque)
	if storeErr != nil {
		return nil, mycerr.UseCaseErr("connection string not found or expired").WithCode(mycerr.MYC00013)
	}

	wantMeta := MetaRoleScopedConnectionString
	if _, ok := scope.(TenantWithPermissionsScope); ok {
		wantMeta = MetaTenantScopedConnectionString
	}
	if persisted.Meta != wantMeta {
		return nil, mycerr.UseCaseErr("connection string scope mismatch").WithCode(mycerr.MYC00013).WithExpected(false)
	}
	if persisted.IsExpired(r.now()) {
		return nil, mycerr.UseCaseErr("connection string has expired").WithCode(mycerr.MYC00013)
	}

	return scope, nil
}

// ResolveRegistrationToken checks and invalidates a single-use
// registration token of the expected kind in one step.
func (r *Resolver) ResolveRegistrationToken(ctx context.Context, id string, expected RegistrationKind) *mycerr.Error {
	persisted, err := r.store.CheckAndInvalidate(ctx, id)
	if err != nil {
		return mycerr.UseCaseErr("token not found or expired").WithCode(mycerr.MYC00013)
	}
	if persisted.Meta != expected.meta() {
		return mycerr.UseCaseErr("token kind mismatch").WithCode(mycerr.MYC00013).WithExpected(false)
	}
	if persisted.IsExpired(r.now()) {
		return mycerr.UseCaseErr("token has expired").WithCode(mycerr.MYC00013)
	}
	return nil
}
