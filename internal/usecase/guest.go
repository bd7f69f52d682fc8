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

// GuestUserToAccount grants userID the permissions of guestRoleID on
// accountID. When parentRoleID is non-nil the grant is a delegated
// child-role guest (e.g. a subscription account re-sharing a narrower
// role it was itself guested into); the role DAG must stay acyclic, so
// the same dtos.DetectRoleCycle check GuestRole.InsertChild runs is
// applied here before the grant is persisted.
func GuestUserToAccount(
	ctx context.Context,
	profile dtos.Profile,
	tenantID, accountID, guestRoleID, userID uuid.UUID,
	parentRoleID *uuid.UUID,
	roles map[uuid.UUID]dtos.GuestRole,
	registration ports.GuestUserOnAccountRegistration,
	audit auditpkg.Service,
) (ports.CreateResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	if _, merr := RelatedAccountsForTenantWrite(profile, tenantID, SystemActorGuestManager); merr != nil {
		return ports.CreateResponseKind[ports.GuestUserOnAccount]{}, merr
	}

	if parentRoleID != nil && dtos.DetectRoleCycle(roles, *parentRoleID, guestRoleID) {
		return ports.CreateResponseKind[ports.GuestUserOnAccount]{}, mycerr.InvalidArgumentErr(
			"role delegation would create a cycle",
		).WithCode(mycerr.MYC00018)
	}

	grantID := uuid.New()
	resp, merr := registration.Create(ctx, ports.GuestUserOnAccount{
		ID:          grantID,
		AccountID:   accountID,
		GuestRoleID: guestRoleID,
		UserID:      userID,
		Verified:    false,
	})
	if merr == nil && audit != nil {
		audit.Log(ctx, auditpkg.EventGuestGranted, auditpkg.LogParams{
			ActorID:  profile.AccID,
			TargetID: grantID,
			TenantID: tenantID,
			Metadata: map[string]interface{}{"account_id": accountID, "guest_role_id": guestRoleID, "user_id": userID},
		})
	}
	return resp, merr
}

// RevokeGuestFromAccount removes an existing GuestUserOnAccount grant.
func RevokeGuestFromAccount(
	ctx context.Context,
	profile dtos.Profile,
	tenantID uuid.UUID,
	guestUserOnAccountID uuid.UUID,
	deletion ports.GuestUserOnAccountDeletion,
	audit auditpkg.Service,
) (ports.DeletionResponseKind, *mycerr.Error) {
	if _, merr := RelatedAccountsForTenantWrite(profile, tenantID, SystemActorGuestManager); merr != nil {
		return ports.DeletionResponseKind{}, merr
	}

	resp, merr := deletion.Delete(ctx, guestUserOnAccountID)
	if merr == nil && audit != nil {
		audit.Log(ctx, auditpkg.EventGuestRevoked, auditpkg.LogParams{
			ActorID:  profile.AccID,
			TargetID: guestUserOnAccountID,
			TenantID: tenantID,
		})
	}
	return resp, merr
}

// VerifyGuestUserOnAccount marks grant as verified, typically after the
// invited user has accepted the invitation. Timestamped for audit but the
// timestamp itself lives on the caller's persistence layer, not here.
func VerifyGuestUserOnAccount(
	ctx context.Context,
	grant ports.GuestUserOnAccount,
	updating ports.GuestUserOnAccountUpdating,
	_ time.Time,
) (ports.UpdatingResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	grant.Verified = true
	return updating.Update(ctx, grant)
}
