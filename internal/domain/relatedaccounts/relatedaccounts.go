// Package relatedaccounts holds the RelatedAccounts decision: the outcome
// of running a Profile through its cascade filters and one of the
// Profile.GetRelatedAccount*OrError procedures.
package relatedaccounts

import (
	"github.com/google/uuid"
)

// Kind tags which variant of RelatedAccounts a value holds.
type Kind int

const (
	KindHasStaffPrivileges Kind = iota
	KindHasManagerPrivileges
	KindHasTenantWidePrivileges
	KindAllowedAccounts
	KindAuthorizedRoles
)

// RoleGrant pairs a role name with the permission level it was granted at;
// used by the AuthorizedRoles variant.
type RoleGrant struct {
	Role       string
	Permission int
}

// RelatedAccounts is the authorisation decision produced by the Profile
// engine. Exactly one of its fields is meaningful, selected by Kind; use
// the accessor methods rather than reading fields directly so callers
// can't mistake an unset field for a valid empty one.
type RelatedAccounts struct {
	kind            Kind
	tenant          uuid.UUID
	allowedAccounts []uuid.UUID
	authorizedRoles []RoleGrant
}

func HasStaffPrivileges() RelatedAccounts {
	return RelatedAccounts{kind: KindHasStaffPrivileges}
}

func HasManagerPrivileges() RelatedAccounts {
	return RelatedAccounts{kind: KindHasManagerPrivileges}
}

func HasTenantWidePrivileges(tenant uuid.UUID) RelatedAccounts {
	return RelatedAccounts{kind: KindHasTenantWidePrivileges, tenant: tenant}
}

func AllowedAccounts(ids []uuid.UUID) RelatedAccounts {
	return RelatedAccounts{kind: KindAllowedAccounts, allowedAccounts: ids}
}

func AuthorizedRoles(roles []RoleGrant) RelatedAccounts {
	return RelatedAccounts{kind: KindAuthorizedRoles, authorizedRoles: roles}
}

func (r RelatedAccounts) Kind() Kind { return r.kind }

// Tenant returns the tenant id for a HasTenantWidePrivileges value; zero
// UUID otherwise.
func (r RelatedAccounts) Tenant() uuid.UUID { return r.tenant }

// AllowedAccountIDs returns the account id set for an AllowedAccounts
// value; nil otherwise.
func (r RelatedAccounts) AllowedAccountIDs() []uuid.UUID { return r.allowedAccounts }

// RoleGrants returns the role/permission pairs for an AuthorizedRoles
// value; nil otherwise.
func (r RelatedAccounts) RoleGrants() []RoleGrant { return r.authorizedRoles }

// HasAccount reports whether id is among the accounts this decision
// authorises. Staff and manager privileges authorise every account.
func (r RelatedAccounts) HasAccount(id uuid.UUID) bool {
	switch r.kind {
	case KindHasStaffPrivileges, KindHasManagerPrivileges:
		return true
	case KindAllowedAccounts:
		for _, a := range r.allowedAccounts {
			if a == id {
				return true
			}
		}
	}
	return false
}
