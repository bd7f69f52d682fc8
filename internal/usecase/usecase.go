// Package usecase implements the Authorization Use-Cases (C6): the only
// layer allowed to make an authorization decision, composing Profile
// cascade filters into a RelatedAccounts grant before touching any
// persistence port. Use-cases never inspect Profile.IsStaff/IsManager
// directly — they consume RelatedAccounts, same as
// original_source/core/src/use_cases does.
package usecase

import (
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// RelatedAccountsForTenantWrite is the canonical prologue every
// tenant-scoped write use-case runs before touching a repository: narrow
// to the tenant, to system accounts, to write-level licenses, to the
// given management roles, then accept either a specific allowed-account
// set or whole-tenant ownership as sufficient authority.
func RelatedAccountsForTenantWrite(profile dtos.Profile, tenantID uuid.UUID, roles ...string) (relatedaccounts.RelatedAccounts, *mycerr.Error) {
	narrowed := profile.
		OnTenant(tenantID).
		WithSystemAccountsAccess().
		WithWriteAccess()

	if len(roles) > 0 {
		narrowed = narrowed.WithRoles(roles...)
	}

	return narrowed.GetRelatedAccountsOrTenantOrError(tenantID)
}

// SystemActor names a built-in management role, mirroring
// original_source's SystemActor enum members that appear in use-case role
// checks.
const (
	SystemActorTenantManager        = "tenantManager"
	SystemActorSubscriptionsManager = "subscriptionsManager"
	SystemActorGuestManager         = "guestManager"
)
