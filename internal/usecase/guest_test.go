package usecase

import (
	"context"
	"testing"

	auditpkg "github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGuestUsersRegistration struct {
	created []ports.GuestUserOnAccount
}

func (r *recordingGuestUsersRegistration) Create(_ context.Context, g ports.GuestUserOnAccount) (ports.CreateResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	r.created = append(r.created, g)
	return ports.Created(g), nil
}

type recordingGuestUsersDeletion struct {
	deleted []uuid.UUID
}

func (d *recordingGuestUsersDeletion) Delete(_ context.Context, id uuid.UUID) (ports.DeletionResponseKind, *mycerr.Error) {
	d.deleted = append(d.deleted, id)
	return ports.Deleted(), nil
}

type singleAccountFetching struct {
	account dtos.Account
}

func (f singleAccountFetching) Get(_ context.Context, id uuid.UUID, _ relatedaccounts.RelatedAccounts) (ports.FetchResponseKind[dtos.Account], *mycerr.Error) {
	if id != f.account.ID {
		return ports.NotFound[dtos.Account](), nil
	}
	return ports.Found(f.account), nil
}

func (f singleAccountFetching) List(_ context.Context, _ relatedaccounts.RelatedAccounts, _ ports.AccountFilter) (ports.FetchManyResponseKind[dtos.Account], *mycerr.Error) {
	return ports.FoundMany[dtos.Account](nil), nil
}

func (f singleAccountFetching) GetBySlug(_ context.Context, _ uuid.UUID, _ string) (ports.FetchResponseKind[dtos.Account], *mycerr.Error) {
	return ports.NotFound[dtos.Account](), nil
}

func (f singleAccountFetching) ListByOwner(_ context.Context, _ uuid.UUID) (ports.FetchManyResponseKind[dtos.Account], *mycerr.Error) {
	return ports.FoundMany([]dtos.Account{f.account}), nil
}

type fixedGuestUsersFetching struct {
	records []ports.GuestUserOnAccount
}

func (f fixedGuestUsersFetching) ListByAccount(_ context.Context, _ uuid.UUID) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	return ports.FoundMany(f.records), nil
}

func (f fixedGuestUsersFetching) ListByGuestRoleID(_ context.Context, _, _ uuid.UUID) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	return ports.FoundMany(f.records), nil
}

func (f fixedGuestUsersFetching) ListByUser(_ context.Context, _ uuid.UUID) (ports.FetchManyResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	return ports.FoundMany(f.records), nil
}

type recordingGuestUsersUpdating struct {
	updated []ports.GuestUserOnAccount
}

func (u *recordingGuestUsersUpdating) Update(_ context.Context, g ports.GuestUserOnAccount) (ports.UpdatingResponseKind[ports.GuestUserOnAccount], *mycerr.Error) {
	u.updated = append(u.updated, g)
	return ports.Updated(g), nil
}

func subscriptionManagerProfile(tenantID, accountID uuid.UUID) dtos.Profile {
	return dtos.Profile{
		AccID: accountID,
		LicensedResources: []dtos.LicensedResource{
			{AccID: accountID, TenantID: tenantID, SysAcc: true, RoleName: SystemActorSubscriptionsManager, Permission: dtos.PermissionWrite, Verified: true},
		},
	}
}

// TestUpdateFlagsFromSubscriptionAccountRejectsMultipleGuestRecords
// exercises scenario S4: when more than one GuestUserOnAccount record
// matches the guest role and account, the operation must be rejected
// with MYC00018 and perform no update.
func TestUpdateFlagsFromSubscriptionAccountRejectsMultipleGuestRecords(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()
	guestRoleID := uuid.New()

	account := dtos.Account{
		ID:          accountID,
		TenantID:    &tenantID,
		AccountType: dtos.AccountTypeOfSubscription(tenantID),
		IsActive:    true,
		IsChecked:   true,
	}

	guests := fixedGuestUsersFetching{records: []ports.GuestUserOnAccount{
		{ID: uuid.New(), AccountID: accountID, GuestRoleID: guestRoleID},
		{ID: uuid.New(), AccountID: accountID, GuestRoleID: guestRoleID},
	}}
	updating := &recordingGuestUsersUpdating{}

	profile := subscriptionManagerProfile(tenantID, accountID)

	_, merr := UpdateFlagsFromSubscriptionAccount(
		context.Background(), profile, tenantID, guestRoleID, accountID,
		[]string{"read"}, nil,
		singleAccountFetching{account: account}, guests, updating,
	)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00018))
	assert.Empty(t, updating.updated)
}

func TestUpdateFlagsFromSubscriptionAccountUpdatesSingleGuestRecord(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()
	guestRoleID := uuid.New()

	account := dtos.Account{
		ID:          accountID,
		TenantID:    &tenantID,
		AccountType: dtos.AccountTypeOfSubscription(tenantID),
		IsActive:    true,
		IsChecked:   true,
	}

	recordID := uuid.New()
	guests := fixedGuestUsersFetching{records: []ports.GuestUserOnAccount{
		{ID: recordID, AccountID: accountID, GuestRoleID: guestRoleID},
	}}
	updating := &recordingGuestUsersUpdating{}

	profile := subscriptionManagerProfile(tenantID, accountID)

	resp, merr := UpdateFlagsFromSubscriptionAccount(
		context.Background(), profile, tenantID, guestRoleID, accountID,
		[]string{"read", "write"}, []string{"delete"},
		singleAccountFetching{account: account}, guests, updating,
	)

	require.Nil(t, merr)
	require.True(t, resp.IsUpdated())
	require.Len(t, updating.updated, 1)
	assert.Equal(t, recordID, updating.updated[0].ID)
	assert.Equal(t, []string{"read", "write"}, updating.updated[0].PermitFlags)
	assert.Equal(t, []string{"delete"}, updating.updated[0].DenyFlags)
}

func TestUpdateFlagsFromSubscriptionAccountRejectsNonSubscriptionAccount(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()
	guestRoleID := uuid.New()

	account := dtos.Account{
		ID:          accountID,
		TenantID:    &tenantID,
		AccountType: dtos.AccountTypeOfTenantManager(tenantID),
		IsActive:    true,
	}

	guests := fixedGuestUsersFetching{}
	updating := &recordingGuestUsersUpdating{}
	profile := subscriptionManagerProfile(tenantID, accountID)

	_, merr := UpdateFlagsFromSubscriptionAccount(
		context.Background(), profile, tenantID, guestRoleID, accountID,
		nil, nil,
		singleAccountFetching{account: account}, guests, updating,
	)

	require.NotNil(t, merr)
	assert.Empty(t, updating.updated)
}

func TestGuestUserToAccountLogsAuditEventOnGrant(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()
	guestRoleID := uuid.New()
	userID := uuid.New()

	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	registration := &recordingGuestUsersRegistration{}
	recorder := &recordingAuditService{}

	resp, merr := GuestUserToAccount(
		context.Background(), profile, tenantID, accountID, guestRoleID, userID,
		nil, nil, registration, recorder,
	)

	require.Nil(t, merr)
	require.True(t, resp.IsCreated())
	require.Len(t, registration.created, 1)
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, auditpkg.EventGuestGranted, recorder.calls[0].action)
	assert.Equal(t, tenantID, recorder.calls[0].params.TenantID)
}

func TestGuestUserToAccountRejectsCyclicDelegation(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()
	roleID := uuid.New()
	userID := uuid.New()

	// A role delegating to itself is the trivial cycle DetectRoleCycle
	// rejects outright (id == candidateChild).
	roles := map[uuid.UUID]dtos.GuestRole{roleID: {ID: roleID}}

	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	registration := &recordingGuestUsersRegistration{}
	recorder := &recordingAuditService{}

	_, merr := GuestUserToAccount(
		context.Background(), profile, tenantID, accountID, roleID, userID,
		&roleID, roles, registration, recorder,
	)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00018))
	assert.Empty(t, registration.created)
	assert.Empty(t, recorder.calls)
}

func TestRevokeGuestFromAccountLogsAuditEventOnSuccess(t *testing.T) {
	tenantID := uuid.New()
	grantID := uuid.New()

	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	deletion := &recordingGuestUsersDeletion{}
	recorder := &recordingAuditService{}

	resp, merr := RevokeGuestFromAccount(context.Background(), profile, tenantID, grantID, deletion, recorder)

	require.Nil(t, merr)
	assert.True(t, resp.IsDeleted())
	require.Len(t, deletion.deleted, 1)
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, auditpkg.EventGuestRevoked, recorder.calls[0].action)
	assert.Equal(t, grantID, recorder.calls[0].params.TargetID)
}
