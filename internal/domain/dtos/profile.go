package dtos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// Owner is a caller identity attached to a Profile — typically the User
// that authenticated, echoed back so downstream handlers can log who
// acted without a second lookup.
type Owner struct {
	ID    uuid.UUID
	Email string
}

// Profile is the authorization context threaded through every use-case.
// It is immutable: every cascade filter below returns a new Profile, never
// mutates the receiver, so a partially-filtered Profile can be reused
// safely from multiple goroutines.
type Profile struct {
	Owners              []Owner
	AccID               uuid.UUID
	IsSubscription      bool
	IsManager           bool
	IsStaff             bool
	OwnerIsActive       bool
	AccountIsActive     bool
	AccountWasApproved  bool
	AccountWasArchived  bool
	AccountWasDeleted   bool
	VerboseStatus       VerboseStatus
	LicensedResources   []LicensedResource
	TenantsOwnership    []TenantOwnership
	filteringState      []string
}

// ProfileString renders the stable, non-redacted identifier used in
// internal logs and trace spans.
func (p Profile) ProfileString() string {
	return fmt.Sprintf("profile/%s", p.AccID)
}

// ProfileRedacted is the same identifier but with every owner email
// redacted, safe for logs that may be shipped to a less trusted sink.
func (p Profile) ProfileRedacted() string {
	emails := make([]string, len(p.Owners))
	for i, o := range p.Owners {
		if e, err := Parse(o.Email); err == nil {
			emails[i] = e.Redacted()
		} else {
			emails[i] = o.Email
		}
	}
	return fmt.Sprintf("profile/%s owners: [%s]", p.AccID, strings.Join(emails, ", "))
}

// OwnerIDs returns the id of every owner attached to the profile.
func (p Profile) OwnerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Owners))
	for i, o := range p.Owners {
		ids[i] = o.ID
	}
	return ids
}

// HasAdminPrivileges reports whether the profile is staff or manager.
func (p Profile) HasAdminPrivileges() bool {
	return p.IsStaff || p.IsManager
}

// HasAdminPrivilegesOrError is the cheap early-exit guard several
// use-cases apply before building the full filter cascade.
func (p Profile) HasAdminPrivilegesOrError() *mycerr.Error {
	if p.HasAdminPrivileges() {
		return nil
	}
	return mycerr.ExecutionErr("current account has no administration privileges").
		WithCode(mycerr.MYC00019)
}

func (p Profile) updateState(key, value string) Profile {
	state := make([]string, len(p.filteringState), len(p.filteringState)+1)
	copy(state, p.filteringState)
	state = append(state, fmt.Sprintf("%d:%s:%s", len(state)+1, key, value))
	p.filteringState = state
	return p
}

func (p Profile) filterResources(keep func(LicensedResource) bool) []LicensedResource {
	if p.LicensedResources == nil {
		return nil
	}
	var out []LicensedResource
	for _, r := range p.LicensedResources {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// OnTenant narrows licensed resources to the given tenant.
func (p Profile) OnTenant(tenantID uuid.UUID) Profile {
	p = p.updateState("tenantId", tenantID.String())
	p.LicensedResources = p.filterResources(func(r LicensedResource) bool {
		return r.TenantID == tenantID
	})
	return p
}

// OnAccount narrows licensed resources to the given account.
func (p Profile) OnAccount(accountID uuid.UUID) Profile {
	p = p.updateState("accountId", accountID.String())
	p.LicensedResources = p.filterResources(func(r LicensedResource) bool {
		return r.AccID == accountID
	})
	return p
}

// WithSystemAccountsAccess narrows licensed resources to system accounts.
func (p Profile) WithSystemAccountsAccess() Profile {
	p = p.updateState("isAccStd", "true")
	p.LicensedResources = p.filterResources(func(r LicensedResource) bool {
		return r.SysAcc
	})
	return p
}

func (p Profile) withPermission(perm Permission) Profile {
	p = p.updateState("permission", strconv.Itoa(perm.Rank()))
	p.LicensedResources = p.filterResources(func(r LicensedResource) bool {
		return r.Permission.Rank() >= perm.Rank()
	})
	return p
}

// WithReadAccess narrows to licenses whose permission rank is at least Read.
func (p Profile) WithReadAccess() Profile { return p.withPermission(PermissionRead) }

// WithWriteAccess narrows to licenses whose permission rank is at least Write.
func (p Profile) WithWriteAccess() Profile { return p.withPermission(PermissionWrite) }

// WithRoles narrows licensed resources to the given role names.
func (p Profile) WithRoles(roles ...string) Profile {
	p = p.updateState("role", strings.Join(roles, ","))
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	p.LicensedResources = p.filterResources(func(r LicensedResource) bool {
		_, ok := set[r.RoleName]
		return ok
	})
	return p
}

// WithTenantOwnershipOrError returns the profile unchanged if tenantID is
// among its owned tenants, else an insufficient-privileges error carrying
// the accumulated filtering state.
func (p Profile) WithTenantOwnershipOrError(tenantID uuid.UUID) (Profile, *mycerr.Error) {
	for _, t := range p.TenantsOwnership {
		if t.Tenant == tenantID {
			return p, nil
		}
	}
	return Profile{}, mycerr.ExecutionErr(fmt.Sprintf(
		"insufficient privileges to perform this action (no tenant ownership): %s",
		strings.Join(p.filteringState, ", "),
	)).WithCode(mycerr.MYC00019)
}

// GetRelatedAccountOrError is the Profile engine's terminal decision
// procedure: staff and manager short-circuit, otherwise the narrowed
// licensed-resource set must be non-empty.
func (p Profile) GetRelatedAccountOrError() (relatedaccounts.RelatedAccounts, *mycerr.Error) {
	if p.IsStaff {
		return relatedaccounts.HasStaffPrivileges(), nil
	}
	if p.IsManager {
		return relatedaccounts.HasManagerPrivileges(), nil
	}

	if p.LicensedResources != nil {
		if len(p.LicensedResources) == 0 {
			return relatedaccounts.RelatedAccounts{}, mycerr.ExecutionErr(
				"insufficient licenses to perform this action",
			).WithCode(mycerr.MYC00019)
		}
		ids := make([]uuid.UUID, len(p.LicensedResources))
		for i, r := range p.LicensedResources {
			ids[i] = r.AccID
		}
		return relatedaccounts.AllowedAccounts(ids), nil
	}

	return relatedaccounts.RelatedAccounts{}, mycerr.ExecutionErr(fmt.Sprintf(
		"insufficient privileges to perform this action (no accounts): %s",
		strings.Join(p.filteringState, ", "),
	)).WithCode(mycerr.MYC00019)
}

// GetRelatedAccountsOrTenantOrError is GetRelatedAccountOrError's variant
// that also accepts whole-tenant ownership as sufficient authority.
func (p Profile) GetRelatedAccountsOrTenantOrError(tenantID uuid.UUID) (relatedaccounts.RelatedAccounts, *mycerr.Error) {
	if p.IsStaff {
		return relatedaccounts.HasStaffPrivileges(), nil
	}
	if p.IsManager {
		return relatedaccounts.HasManagerPrivileges(), nil
	}
	for _, t := range p.TenantsOwnership {
		if t.Tenant == tenantID {
			return relatedaccounts.HasTenantWidePrivileges(tenantID), nil
		}
	}
	return p.GetRelatedAccountOrError()
}

// GetIDsOrError returns the raw allowed-account id set, requiring either a
// non-empty licensed-resource set or staff/manager privileges.
func (p Profile) GetIDsOrError() ([]uuid.UUID, *mycerr.Error) {
	ids := make([]uuid.UUID, len(p.LicensedResources))
	for i, r := range p.LicensedResources {
		ids[i] = r.AccID
	}

	if len(ids) == 0 && !p.IsStaff && !p.IsManager {
		return nil, mycerr.ExecutionErr(fmt.Sprintf(
			"insufficient privileges to perform this action (no ids): %s",
			strings.Join(p.filteringState, ", "),
		)).WithCode(mycerr.MYC00019)
	}

	return ids, nil
}

// FilteringState exposes the accumulated diagnostic trail, read-only.
func (p Profile) FilteringState() []string {
	out := make([]string, len(p.filteringState))
	copy(out, p.filteringState)
	return out
}
