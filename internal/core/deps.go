// Package core implements Core's own REST surface (C7): the handlers the
// Gateway proxies tenant/account/guest/TOTP/connection-string requests to
// after it has already authenticated the caller and narrowed their
// Profile. Every handler here trusts apimiddleware.ProfileFromHeader to
// have already decoded that Profile; none of them re-derive identity from
// a bearer token.
package core

import (
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/audit"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/credential"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/ports"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/google/uuid"
)

// Deps bundles every persistence port and ambient service the handlers in
// this package call through. Built once in cmd/core/main.go and passed to
// NewRouter.
type Deps struct {
	Users interface {
		ports.UserFetching
		ports.UserRegistration
		ports.UserUpdating
	}
	Accounts interface {
		ports.AccountFetching
		ports.AccountRegistration
		ports.AccountUpdating
	}
	Tenants interface {
		ports.TenantFetching
		ports.TenantRegistration
		ports.TenantUpdating
	}
	GuestRoles ports.GuestRoleFetching
	Guests     interface {
		ports.GuestUserOnAccountFetching
		ports.GuestUserOnAccountRegistration
		ports.GuestUserOnAccountUpdating
		ports.GuestUserOnAccountDeletion
	}
	Audit audit.Service
	MFA   *credential.MFAService
	Hasher credential.PasswordHasher
	Issuer *token.Issuer

	MasterSecret uuid.UUID
	TOTPIssuer   string
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
