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

// RegisterSubscriptionAccount registers a tenant-scoped legal-entity
// account. The caller must already own the tenant.
func RegisterSubscriptionAccount(
	ctx context.Context,
	profile dtos.Profile,
	tenantID uuid.UUID,
	name, slug string,
	owners []dtos.User,
	fetching ports.AccountFetching,
	registration ports.AccountRegistration,
	now time.Time,
) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	if _, merr := profile.WithTenantOwnershipOrError(tenantID); merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}

	existing, merr := fetching.GetBySlug(ctx, tenantID, slug)
	if merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}
	if existing.IsFound() {
		return ports.NotCreated[dtos.Account]("Account already exists"), nil
	}

	account := dtos.NewSubscriptionAccount(name, slug, tenantID, owners, now)
	return registration.Create(ctx, account)
}

// RegisterTenantManagerAccount registers the privileged account managing
// a tenant's configuration. Restricted to staff/manager callers.
func RegisterTenantManagerAccount(
	ctx context.Context,
	profile dtos.Profile,
	tenantID uuid.UUID,
	name, slug string,
	owners []dtos.User,
	fetching ports.AccountFetching,
	registration ports.AccountRegistration,
	now time.Time,
) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	if merr := profile.HasAdminPrivilegesOrError(); merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}

	existing, merr := fetching.GetBySlug(ctx, tenantID, slug)
	if merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}
	if existing.IsFound() {
		return ports.NotCreated[dtos.Account]("Account already exists"), nil
	}

	account := dtos.NewTenantManagerAccount(name, slug, tenantID, owners, now)
	return registration.Create(ctx, account)
}

// RegisterUserDefaultAccount self-registers the default personal account
// every User owns. It is the one registration path that runs before a
// Profile exists, so authority is checked via email uniqueness instead of
// a RelatedAccounts grant.
func RegisterUserDefaultAccount(
	ctx context.Context,
	email dtos.Email,
	name, slug string,
	owner dtos.User,
	users ports.UserFetching,
	registration ports.AccountRegistration,
	now time.Time,
) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	existing, merr := users.GetByEmail(ctx, email)
	if merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}
	if existing.IsFound() {
		return ports.NotCreated[dtos.Account]("User already registered in Mycelium"), nil
	}

	account := dtos.NewUserDefaultAccount(name, slug, owner, now)
	return registration.Create(ctx, account)
}

// RegisterRoleAssociatedAccount registers a service-style account whose
// identity is a named role. The caller must own the tenant.
func RegisterRoleAssociatedAccount(
	ctx context.Context,
	profile dtos.Profile,
	tenantID uuid.UUID,
	name, slug, roleName string,
	readRoleID, writeRoleID uuid.UUID,
	owners []dtos.User,
	fetching ports.AccountFetching,
	registration ports.AccountRegistration,
	now time.Time,
) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	if _, merr := profile.WithTenantOwnershipOrError(tenantID); merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}

	existing, merr := fetching.GetBySlug(ctx, tenantID, slug)
	if merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}
	if existing.IsFound() {
		return ports.NotCreated[dtos.Account]("Account already exists"), nil
	}

	account := dtos.NewRoleAssociatedAccount(name, slug, tenantID, roleName, readRoleID, writeRoleID, owners, now)
	return registration.Create(ctx, account)
}

// RegisterActorAssociatedAccount registers a system-actor account
// (webhooks, background workers). Restricted to staff/manager callers.
func RegisterActorAssociatedAccount(
	ctx context.Context,
	profile dtos.Profile,
	name, slug, actor string,
	owners []dtos.User,
	registration ports.AccountRegistration,
	now time.Time,
) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	if merr := profile.HasAdminPrivilegesOrError(); merr != nil {
		return ports.CreateResponseKind[dtos.Account]{}, merr
	}

	account := dtos.NewActorAssociatedAccount(name, slug, actor, owners, now)
	return registration.Create(ctx, account)
}

// AccountStatusTransition is the input to UpdateAccountStatus: the target
// account plus the lifecycle event to apply.
type AccountStatusTransitionKind int

const (
	TransitionApprove AccountStatusTransitionKind = iota
	TransitionDisapprove
	TransitionArchive
	TransitionUnarchive
	TransitionDeactivate
	TransitionActivate
)

// UpdateAccountStatus applies one lifecycle transition to account,
// implementing the state machine of spec.md §4.8: deactivate snapshots
// the prior active flag so a later activate can restore it, rather than
// unconditionally setting IsActive=true.
func UpdateAccountStatus(
	ctx context.Context,
	profile dtos.Profile,
	account dtos.Account,
	transition AccountStatusTransitionKind,
	updating ports.AccountUpdating,
	audit auditpkg.Service,
) (ports.UpdatingResponseKind[dtos.Account], *mycerr.Error) {
	tenantID := uuid.Nil
	if account.TenantID != nil {
		tenantID = *account.TenantID
	}
	if _, merr := RelatedAccountsForTenantWrite(profile, tenantID, SystemActorTenantManager); merr != nil {
		return ports.UpdatingResponseKind[dtos.Account]{}, merr
	}

	switch transition {
	case TransitionApprove:
		account.IsChecked = true
	case TransitionDisapprove:
		account.IsChecked = false
	case TransitionArchive:
		account.IsArchived = true
	case TransitionUnarchive:
		account.IsArchived = false
	case TransitionDeactivate:
		account.IsActive = false
	case TransitionActivate:
		account.IsActive = true
	default:
		return ports.UpdatingResponseKind[dtos.Account]{}, mycerr.InvalidArgumentErr("unknown account status transition")
	}

	resp, merr := updating.Update(ctx, account)
	if merr == nil && audit != nil {
		logAccountStatusChange(ctx, audit, profile, account, tenantID, transition)
	}
	return resp, merr
}

func logAccountStatusChange(ctx context.Context, svc auditpkg.Service, profile dtos.Profile, account dtos.Account, tenantID uuid.UUID, transition AccountStatusTransitionKind) {
	svc.Log(ctx, auditpkg.EventAccountStatusChanged, auditpkg.LogParams{
		ActorID:  profile.AccID,
		TargetID: account.ID,
		TenantID: tenantID,
		Metadata: map[string]interface{}{"transition": int(transition)},
	})
}

// UpdateFlagsFromSubscriptionAccount replaces the permit/deny flags of
// the single GuestUserOnAccount record granted under guestRoleID on
// account_id. Ported from
// original_source/core/src/use_cases/role_scoped/subscriptions_manager/
// guest/update_flags_from_subscription_account.rs.
func UpdateFlagsFromSubscriptionAccount(
	ctx context.Context,
	profile dtos.Profile,
	tenantID, guestRoleID, accountID uuid.UUID,
	permitFlags, denyFlags []string,
	accounts ports.AccountFetching,
	guestUsersFetching ports.GuestUserOnAccountFetching,
	guestUsersUpdating ports.GuestUserOnAccountUpdating,
) (ports.UpdatingResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	related, merr := profile.
		OnTenant(tenantID).
		WithSystemAccountsAccess().
		WithWriteAccess().
		WithRoles(SystemActorSubscriptionsManager, SystemActorTenantManager).
		GetRelatedAccountsOrTenantOrError(tenantID)
	if merr != nil {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, merr
	}

	targetResp, merr := accounts.Get(ctx, accountID, related)
	if merr != nil {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, merr
	}
	if !targetResp.IsFound() {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, mycerr.FetchingErr("target account not found")
	}
	targetAccount := targetResp.Value()

	if targetAccount.AccountType.Kind != dtos.AccountTypeSubscription {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, mycerr.UseCaseErr(
			"invalid account: only subscription accounts should update permit and deny flags",
		)
	}
	if _, merr := profile.OnAccount(accountID).WithWriteAccess().WithRoles(SystemActorSubscriptionsManager).GetRelatedAccountOrError(); merr != nil {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, merr
	}
	if targetAccount.VerboseStatus() != dtos.VerboseStatusActive {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, mycerr.UseCaseErr(
			"invalid account status: only active accounts should update permit and deny flags",
		)
	}

	guestsResp, merr := guestUsersFetching.ListByGuestRoleID(ctx, guestRoleID, accountID)
	if merr != nil {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, merr
	}
	records := guestsResp.Records()
	if len(records) == 0 {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, mycerr.UseCaseErr(
			"no guest user on account found for the given guest role id and account id",
		).WithCode(mycerr.MYC00018)
	}
	if len(records) > 1 {
		return ports.UpdatingResponseKind[ports.GuestUserOnAccount]{}, mycerr.UseCaseErr(
			"operation restricted to single guest user on account",
		).WithCode(mycerr.MYC00018)
	}

	guestUser := records[0]
	guestUser.PermitFlags = permitFlags
	guestUser.DenyFlags = denyFlags

	return guestUsersUpdating.Update(ctx, guestUser)
}
