package usecase

import (
	"context"
	"testing"
	"time"

	auditpkg "github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTenantRegistration struct {
	created []dtos.Tenant
}

func (f *fakeTenantRegistration) Create(_ context.Context, tenant dtos.Tenant) (ports.CreateResponseKind[dtos.Tenant], *mycerr.Error) {
	f.created = append(f.created, tenant)
	return ports.Created(tenant), nil
}

type fakeTenantUpdating struct {
	updated []dtos.Tenant
}

func (f *fakeTenantUpdating) Update(_ context.Context, tenant dtos.Tenant) (ports.UpdatingResponseKind[dtos.Tenant], *mycerr.Error) {
	f.updated = append(f.updated, tenant)
	return ports.Updated(tenant), nil
}

func TestCreateTenantRejectsWithoutAdminPrivileges(t *testing.T) {
	registration := &fakeTenantRegistration{}
	_, merr := CreateTenant(context.Background(), dtos.Profile{}, "Acme", "acme corp", registration)

	require.NotNil(t, merr)
	assert.Empty(t, registration.created)
}

func TestCreateTenantOwnsCallerAsSoleOwner(t *testing.T) {
	registration := &fakeTenantRegistration{}
	owner := dtos.Owner{ID: uuid.New(), Email: "root@acme.test"}
	profile := dtos.Profile{IsStaff: true, Owners: []dtos.Owner{owner}}

	resp, merr := CreateTenant(context.Background(), profile, "Acme", "acme corp", registration)

	require.Nil(t, merr)
	require.True(t, resp.IsCreated())
	require.Len(t, registration.created, 1)
	assert.Equal(t, []dtos.Owner{owner}, registration.created[0].Owners)
}

func TestUpdateTenantStatusAppendsHistoryAndLogsAuditEvent(t *testing.T) {
	tenantID := uuid.New()
	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	updating := &fakeTenantUpdating{}
	recorder := &recordingAuditService{}

	tenant := dtos.Tenant{ID: tenantID}
	now := time.Now()

	resp, merr := UpdateTenantStatus(context.Background(), profile, tenant, TenantTransitionDeactivate, now, updating, recorder)

	require.Nil(t, merr)
	require.Len(t, resp.Value().Status, 1)
	assert.Equal(t, dtos.TenantStatusInactive, resp.Value().Status[0].Kind)
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, auditpkg.EventTenantStatusChanged, recorder.calls[0].action)
}

func TestUpdateTenantStatusRejectsWithoutOwnership(t *testing.T) {
	tenantID := uuid.New()
	updating := &fakeTenantUpdating{}

	_, merr := UpdateTenantStatus(context.Background(), dtos.Profile{}, dtos.Tenant{ID: tenantID}, TenantTransitionActivate, time.Now(), updating, nil)

	require.NotNil(t, merr)
	assert.True(t, merr.HasCode(mycerr.MYC00019))
	assert.Empty(t, updating.updated)
}

func TestTransferTenantOwnershipRejectsEmptyOwnerSet(t *testing.T) {
	tenantID := uuid.New()
	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	updating := &fakeTenantUpdating{}

	_, merr := TransferTenantOwnership(context.Background(), profile, dtos.Tenant{ID: tenantID}, nil, updating, nil)

	require.NotNil(t, merr)
	assert.Empty(t, updating.updated)
}

func TestTransferTenantOwnershipLogsAuditEvent(t *testing.T) {
	tenantID := uuid.New()
	profile := dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}}}
	updating := &fakeTenantUpdating{}
	recorder := &recordingAuditService{}
	newOwners := []dtos.Owner{{ID: uuid.New(), Email: "new-owner@acme.test"}}

	resp, merr := TransferTenantOwnership(context.Background(), profile, dtos.Tenant{ID: tenantID}, newOwners, updating, recorder)

	require.Nil(t, merr)
	assert.Equal(t, newOwners, resp.Value().Owners)
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, auditpkg.EventTenantOwnershipTransfer, recorder.calls[0].action)
}
