package dtos

import (
	"testing"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTenantID = uuid.MustParse("e497848f-a0d4-49f4-8288-c3df11416ff1")

func testProfile() Profile {
	otherTenant := uuid.New()
	return Profile{
		AccID:           uuid.New(),
		OwnerIsActive:   true,
		AccountIsActive: true,
		LicensedResources: []LicensedResource{
			{AccID: uuid.New(), TenantID: fixedTenantID, AccName: "Guest Account Name", SysAcc: false, RoleName: "service", Permission: PermissionWrite, Verified: true},
			{AccID: uuid.New(), TenantID: fixedTenantID, AccName: "Guest Account Name", SysAcc: true, RoleName: "newbie", Permission: PermissionRead, Verified: true},
			{AccID: uuid.New(), TenantID: otherTenant, AccName: "Guest Account Name", SysAcc: true, RoleName: "service", Permission: PermissionWrite, Verified: true},
		},
		TenantsOwnership: []TenantOwnership{{Tenant: fixedTenantID}},
	}
}

func TestProfileFilteringByPermission(t *testing.T) {
	p := testProfile()

	assert.Len(t, p.WithReadAccess().LicensedResources, 1)
	assert.Len(t, p.WithWriteAccess().LicensedResources, 1)
	assert.Len(t, p.WithSystemAccountsAccess().LicensedResources, 2)
}

func TestProfileOnTenantCascade(t *testing.T) {
	p := testProfile()

	onTenant := p.OnTenant(fixedTenantID)
	assert.Len(t, onTenant.LicensedResources, 2)
	assert.Len(t, onTenant.WithReadAccess().LicensedResources, 1)
	assert.Len(t, onTenant.WithWriteAccess().LicensedResources, 1)
}

func TestProfileFilteringByRole(t *testing.T) {
	p := testProfile()
	onTenant := p.OnTenant(fixedTenantID)

	assert.Len(t, onTenant.WithRoles("service").LicensedResources, 1)
	assert.Len(t, onTenant.WithRoles("newbie").LicensedResources, 1)
	assert.Len(t, onTenant.WithRoles("service", "newbie").LicensedResources, 2)
}

func TestProfileFilteringAsSystemDefault(t *testing.T) {
	p := testProfile()
	onTenant := p.OnTenant(fixedTenantID)

	assert.Len(t, onTenant.WithSystemAccountsAccess().LicensedResources, 1)
}

func TestProfileWithTenantOwnershipOrError(t *testing.T) {
	p := testProfile().OnTenant(fixedTenantID)

	_, err := p.WithTenantOwnershipOrError(fixedTenantID)
	require.Nil(t, err)

	_, err = p.WithTenantOwnershipOrError(uuid.New())
	require.NotNil(t, err)
	assert.True(t, err.HasCode("MYC00019"))
}

func TestProfileGetRelatedAccountOrError(t *testing.T) {
	p := testProfile()

	decision, err := p.GetRelatedAccountOrError()
	require.Nil(t, err)

	assert.Equal(t, relatedaccounts.KindAllowedAccounts, decision.Kind())
	assert.Len(t, decision.AllowedAccountIDs(), len(p.LicensedResources))
	assert.NotContains(t, decision.AllowedAccountIDs(), p.AccID)
}

func TestProfileGetRelatedAccountOrErrorStaffShortCircuits(t *testing.T) {
	p := testProfile()
	p.IsStaff = true

	decision, err := p.GetRelatedAccountOrError()
	require.Nil(t, err)
	assert.Equal(t, relatedaccounts.KindHasStaffPrivileges, decision.Kind())
}

func TestProfileGetRelatedAccountOrErrorEmptyLicensesFails(t *testing.T) {
	p := Profile{AccID: uuid.New(), LicensedResources: []LicensedResource{}}

	_, err := p.GetRelatedAccountOrError()
	require.NotNil(t, err)
	assert.True(t, err.HasCode("MYC00019"))
}

func TestProfileGetRelatedAccountsOrTenantOrError(t *testing.T) {
	p := testProfile()

	decision, err := p.GetRelatedAccountsOrTenantOrError(fixedTenantID)
	require.Nil(t, err)
	assert.Equal(t, relatedaccounts.KindHasTenantWidePrivileges, decision.Kind())
	assert.Equal(t, fixedTenantID, decision.Tenant())
}

func TestProfileFiltersAreIdempotent(t *testing.T) {
	p := testProfile()

	once := p.OnTenant(fixedTenantID).WithReadAccess()
	twice := p.OnTenant(fixedTenantID).WithReadAccess().WithReadAccess()

	assert.Equal(t, once.LicensedResources, twice.LicensedResources)
}

func TestProfileHasAdminPrivileges(t *testing.T) {
	p := testProfile()
	assert.False(t, p.HasAdminPrivileges())

	p.IsManager = true
	assert.True(t, p.HasAdminPrivileges())
	assert.Nil(t, p.HasAdminPrivilegesOrError())
}
