package usecase

import (
	"context"
	"testing"
	"time"

	auditpkg "github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAuditService is the shared audit.Service fake for usecase tests
// that assert a security-relevant mutation emits the right event.
type recordingAuditService struct {
	calls []struct {
		action auditpkg.EventType
		params auditpkg.LogParams
	}
}

func (r *recordingAuditService) Log(_ context.Context, action auditpkg.EventType, params auditpkg.LogParams) {
	r.calls = append(r.calls, struct {
		action auditpkg.EventType
		params auditpkg.LogParams
	}{action, params})
}

type fakeAccountFetching struct {
	bySlug map[string]dtos.Account
	byID   map[uuid.UUID]dtos.Account
}

func (f *fakeAccountFetching) Get(_ context.Context, id uuid.UUID, _ relatedaccounts.RelatedAccounts) (ports.FetchResponseKind[dtos.Account], *mycerr.Error) {
	a, ok := f.byID[id]
	if !ok {
		return ports.NotFound[dtos.Account](), nil
	}
	return ports.Found(a), nil
}

func (f *fakeAccountFetching) List(_ context.Context, _ relatedaccounts.RelatedAccounts, _ ports.AccountFilter) (ports.FetchManyResponseKind[dtos.Account], *mycerr.Error) {
	return ports.FoundMany[dtos.Account](nil), nil
}

func (f *fakeAccountFetching) GetBySlug(_ context.Context, _ uuid.UUID, slug string) (ports.FetchResponseKind[dtos.Account], *mycerr.Error) {
	a, ok := f.bySlug[slug]
	if !ok {
		return ports.NotFound[dtos.Account](), nil
	}
	return ports.Found(a), nil
}

func (f *fakeAccountFetching) ListByOwner(_ context.Context, _ uuid.UUID) (ports.FetchManyResponseKind[dtos.Account], *mycerr.Error) {
	return ports.FoundMany[dtos.Account](nil), nil
}

type fakeAccountRegistration struct {
	created []dtos.Account
}

func (f *fakeAccountRegistration) Create(_ context.Context, account dtos.Account) (ports.CreateResponseKind[dtos.Account], *mycerr.Error) {
	f.created = append(f.created, account)
	return ports.Created(account), nil
}

// TestRegisterSubscriptionAccountRejectsDuplicateSlug exercises scenario
// S3: creating a subscription account under a slug already taken on the
// tenant must answer NotCreated("Account already exists") without
// calling the registration port.
func TestRegisterSubscriptionAccountRejectsDuplicateSlug(t *testing.T) {
	tenantID := uuid.New()
	existing := dtos.Account{ID: uuid.New(), Slug: "acme"}

	fetching := &fakeAccountFetching{bySlug: map[string]dtos.Account{"acme": existing}}
	registration := &fakeAccountRegistration{}

	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}

	resp, merr := RegisterSubscriptionAccount(context.Background(), profile, tenantID, "Acme Inc", "acme", nil, fetching, registration, time.Now())

	require.Nil(t, merr)
	assert.False(t, resp.IsCreated())
	assert.Equal(t, "Account already exists", resp.Reason())
	assert.Empty(t, registration.created)
}

func TestRegisterSubscriptionAccountCreatesWhenSlugIsFree(t *testing.T) {
	tenantID := uuid.New()
	fetching := &fakeAccountFetching{bySlug: map[string]dtos.Account{}}
	registration := &fakeAccountRegistration{}

	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}

	resp, merr := RegisterSubscriptionAccount(context.Background(), profile, tenantID, "Acme Inc", "acme", nil, fetching, registration, time.Now())

	require.Nil(t, merr)
	assert.True(t, resp.IsCreated())
	require.Len(t, registration.created, 1)
	assert.Equal(t, dtos.AccountTypeSubscription, registration.created[0].AccountType.Kind)
}

func TestRegisterSubscriptionAccountRejectsWithoutTenantOwnership(t *testing.T) {
	tenantID := uuid.New()
	fetching := &fakeAccountFetching{bySlug: map[string]dtos.Account{}}
	registration := &fakeAccountRegistration{}

	_, merr := RegisterSubscriptionAccount(context.Background(), dtos.Profile{}, tenantID, "Acme Inc", "acme", nil, fetching, registration, time.Now())

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00019))
	assert.Empty(t, registration.created)
}

type fakeAccountUpdating struct {
	updated []dtos.Account
}

func (f *fakeAccountUpdating) Update(_ context.Context, account dtos.Account) (ports.UpdatingResponseKind[dtos.Account], *mycerr.Error) {
	f.updated = append(f.updated, account)
	return ports.Updated(account), nil
}

func TestUpdateAccountStatusDeactivateThenActivateRestoresActiveFlag(t *testing.T) {
	tenantID := uuid.New()
	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	updating := &fakeAccountUpdating{}

	account := dtos.Account{ID: uuid.New(), TenantID: &tenantID, IsActive: true}

	resp, merr := UpdateAccountStatus(context.Background(), profile, account, TransitionDeactivate, updating, nil)
	require.Nil(t, merr)
	assert.False(t, resp.Value().IsActive)

	resp, merr = UpdateAccountStatus(context.Background(), profile, resp.Value(), TransitionActivate, updating, nil)
	require.Nil(t, merr)
	assert.True(t, resp.Value().IsActive)
}

func TestUpdateAccountStatusLogsAuditEventOnSuccess(t *testing.T) {
	tenantID := uuid.New()
	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	updating := &fakeAccountUpdating{}
	recorder := &recordingAuditService{}

	account := dtos.Account{ID: uuid.New(), TenantID: &tenantID, IsActive: true}

	_, merr := UpdateAccountStatus(context.Background(), profile, account, TransitionDeactivate, updating, recorder)
	require.Nil(t, merr)
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, auditpkg.EventAccountStatusChanged, recorder.calls[0].action)
	assert.Equal(t, account.ID, recorder.calls[0].params.TargetID)
}
