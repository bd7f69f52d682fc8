package usecase

import (
	"context"
	"time"

	auditpkg "github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
)

// CreateTenant registers a new Tenant with the caller as its sole owner.
// Only staff/manager accounts may mint a tenant — there is no tenant to
// own yet, so the usual WithTenantOwnershipOrError gate doesn't apply.
func CreateTenant(
	ctx context.Context,
	profile dtos.Profile,
	name, description string,
	registration ports.TenantRegistration,
) (ports.CreateResponseKind[dtos.Tenant], *mycerr.Error) {
	if merr := profile.HasAdminPrivilegesOrError(); merr != nil {
		return ports.CreateResponseKind[dtos.Tenant]{}, merr
	}

	owners := make([]dtos.Owner, len(profile.Owners))
	copy(owners, profile.Owners)

	tenant := dtos.Tenant{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Owners:      owners,
	}
	return registration.Create(ctx, tenant)
}

// TenantStatusTransitionKind enumerates the lifecycle events
// UpdateTenantStatus may apply to a Tenant's status history.
type TenantStatusTransitionKind int

const (
	TenantTransitionActivate TenantStatusTransitionKind = iota
	TenantTransitionDeactivate
	TenantTransitionArchive
)

// UpdateTenantStatus appends a new entry to tenant's status history,
// gated by tenant ownership.
func UpdateTenantStatus(
	ctx context.Context,
	profile dtos.Profile,
	tenant dtos.Tenant,
	transition TenantStatusTransitionKind,
	now time.Time,
	updating ports.TenantUpdating,
	audit auditpkg.Service,
) (ports.UpdatingResponseKind[dtos.Tenant], *mycerr.Error) {
	if _, merr := profile.WithTenantOwnershipOrError(tenant.ID); merr != nil {
		return ports.UpdatingResponseKind[dtos.Tenant]{}, merr
	}

	var kind dtos.TenantStatusKind
	switch transition {
	case TenantTransitionActivate:
		kind = dtos.TenantStatusActive
	case TenantTransitionDeactivate:
		kind = dtos.TenantStatusInactive
	case TenantTransitionArchive:
		kind = dtos.TenantStatusArchived
	default:
		return ports.UpdatingResponseKind[dtos.Tenant]{}, mycerr.InvalidArgumentErr("unknown tenant status transition")
	}

	tenant.Status = append(tenant.Status, dtos.TenantStatus{
		Kind:  kind,
		Since: now,
		Actor: profile.AccID,
	})
	resp, merr := updating.Update(ctx, tenant)
	if merr == nil && audit != nil {
		audit.Log(ctx, auditpkg.EventTenantStatusChanged, auditpkg.LogParams{
			ActorID:  profile.AccID,
			TargetID: tenant.ID,
			TenantID: tenant.ID,
			Metadata: map[string]interface{}{"kind": int(kind)},
		})
	}
	return resp, merr
}

// TransferTenantOwnership replaces tenant's owner set with newOwners. The
// caller must already be among the current owners.
func TransferTenantOwnership(
	ctx context.Context,
	profile dtos.Profile,
	tenant dtos.Tenant,
	newOwners []dtos.Owner,
	updating ports.TenantUpdating,
	audit auditpkg.Service,
) (ports.UpdatingResponseKind[dtos.Tenant], *mycerr.Error) {
	if _, merr := profile.WithTenantOwnershipOrError(tenant.ID); merr != nil {
		return ports.UpdatingResponseKind[dtos.Tenant]{}, merr
	}
	if len(newOwners) == 0 {
		return ports.UpdatingResponseKind[dtos.Tenant]{}, mycerr.InvalidArgumentErr("a tenant must keep at least one owner")
	}

	tenant.Owners = newOwners
	resp, merr := updating.Update(ctx, tenant)
	if merr == nil && audit != nil {
		audit.Log(ctx, auditpkg.EventTenantOwnershipTransfer, auditpkg.LogParams{
			ActorID:  profile.AccID,
			TargetID: tenant.ID,
			TenantID: tenant.ID,
			Metadata: map[string]interface{}{"new_owner_count": len(newOwners)},
		})
	}
	return resp, merr
}
