package usecase

import (
	"context"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
)

// ProfileBuilder assembles the dtos.Profile gateway.ProfileResolver needs
// from the persistence ports — the concrete counterpart to
// internal/gateway's ProfileResolver interface that main.go wires in
// place of the dev stub.
type ProfileBuilder struct {
	Users    ports.UserFetching
	Accounts ports.AccountFetching
	Grants   ports.GuestUserOnAccountFetching
	Roles    ports.GuestRoleFetching
}

func NewProfileBuilder(users ports.UserFetching, accounts ports.AccountFetching, grants ports.GuestUserOnAccountFetching, roles ports.GuestRoleFetching) *ProfileBuilder {
	return &ProfileBuilder{Users: users, Accounts: accounts, Grants: grants, Roles: roles}
}

// BuildProfile assembles the caller's Profile. Owned accounts determine
// staff/manager status, tenant ownership and the "primary" identity
// (preferring the user's default personal account); guest grants on
// subscription accounts become LicensedResources. Every lookup here
// bypasses RelatedAccounts narrowing (relatedaccounts.HasStaffPrivileges)
// since BuildProfile runs before any RelatedAccounts grant exists — it's
// what the grant is derived from, not a use-case consuming one.
func (b *ProfileBuilder) BuildProfile(ctx context.Context, userID uuid.UUID) (dtos.Profile, *mycerr.Error) {
	userResp, merr := b.Users.Get(ctx, userID)
	if merr != nil {
		return dtos.Profile{}, merr
	}
	if !userResp.IsFound() {
		return dtos.Profile{}, mycerr.FetchingErr("unknown user").WithCode(mycerr.MYC00009)
	}
	user := userResp.Value()

	accountsResp, merr := b.Accounts.ListByOwner(ctx, userID)
	if merr != nil {
		return dtos.Profile{}, merr
	}
	accounts := accountsResp.Records()

	profile := dtos.Profile{
		Owners:        []dtos.Owner{{ID: user.ID, Email: user.Email.String()}},
		OwnerIsActive: user.IsActive,
	}

	var primary *dtos.Account
	for i := range accounts {
		acc := accounts[i]
		switch acc.AccountType.Kind {
		case dtos.AccountTypeStaff:
			profile.IsStaff = true
		case dtos.AccountTypeManager:
			profile.IsManager = true
		case dtos.AccountTypeTenantManager:
			if acc.TenantID != nil {
				profile.TenantsOwnership = append(profile.TenantsOwnership, dtos.TenantOwnership{
					Tenant: *acc.TenantID,
					Since:  acc.Created,
				})
			}
		}
		if primary == nil || acc.IsDefault {
			a := acc
			primary = &a
		}
	}

	if primary != nil {
		profile.AccID = primary.ID
		profile.AccountIsActive = primary.IsActive
		profile.AccountWasApproved = primary.IsChecked
		profile.AccountWasArchived = primary.IsArchived
		profile.AccountWasDeleted = primary.IsDeleted
		profile.VerboseStatus = primary.VerboseStatus()
	}

	grantsResp, merr := b.Grants.ListByUser(ctx, userID)
	if merr != nil {
		return dtos.Profile{}, merr
	}
	grants := grantsResp.Records()
	if len(grants) == 0 {
		return profile, nil
	}

	rolesResp, merr := b.Roles.List(ctx)
	if merr != nil {
		return dtos.Profile{}, merr
	}
	roleByID := make(map[uuid.UUID]dtos.GuestRole, len(rolesResp.Records()))
	for _, r := range rolesResp.Records() {
		roleByID[r.ID] = r
	}

	bypass := relatedaccounts.HasStaffPrivileges()
	var resources []dtos.LicensedResource
	for _, grant := range grants {
		role, ok := roleByID[grant.GuestRoleID]
		if !ok {
			continue
		}
		accResp, merr := b.Accounts.Get(ctx, grant.AccountID, bypass)
		if merr != nil || !accResp.IsFound() {
			continue
		}
		acc := accResp.Value()
		resources = append(resources, dtos.LicensedResource{
			AccID:    acc.ID,
			TenantID: derefUUID(acc.TenantID),
			RoleID:   role.ID,
			AccName:  acc.Name,
			SysAcc: acc.AccountType.Kind == dtos.AccountTypeRoleAssociated ||
				acc.AccountType.Kind == dtos.AccountTypeActorAssociated,
			RoleName:   role.Name,
			Permission: role.Permission,
			Verified:   grant.Verified,
		})
	}
	profile.LicensedResources = resources

	return profile, nil
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.UUID{}
	}
	return *id
}
