package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
)

// Issuer mints opaque connection strings and registration tokens, backed
// by a Store for the persisted side of each record.
type Issuer struct {
	store Store
}

func NewIssuer(store Store) *Issuer {
	return &Issuer{store: store}
}

// IssueConnectionString enforces that profile already holds the matching
// authority for scope (staff, manager, or tenant ownership over the
// scope's tenant) before minting, then persists and encodes it.
func (i *Issuer) IssueConnectionString(ctx context.Context, profile dtos.Profile, scope ConnectionScope) (string, *mycerr.Error) {
	var tenantID uuid.UUID
	var meta MetaKind
	var expiration time.Time

	switch s := scope.(type) {
	case RoleWithPermissionsScope:
		tenantID, expiration, meta = s.TenantID, s.Expiration, MetaRoleScopedConnectionString
	case TenantWithPermissionsScope:
		tenantID, expiration, meta = s.TenantID, s.Expiration, MetaTenantScopedConnectionString
	default:
		return "", mycerr.InvalidArgumentErr("unknown connection scope type").WithCode(mycerr.MYC00020)
	}

	if !profile.HasAdminPrivileges() {
		if _, err := profile.WithTenantOwnershipOrError(tenantID); err != nil {
			return "", err
		}
	}

	opaque, err := EncodeScope(scope)
	if err != nil {
		return "", mycerr.ExecutionErr("encoding connection scope: " + err.Error())
	}

	if storeErr := i.store.Issue(ctx, Token{ID: opaque, Expiration: expiration, Meta: meta}); storeErr != nil {
		return "", mycerr.InvalidRepositoryErr("persisting connection string: " + storeErr.Error())
	}

	return opaque, nil
}

// RegistrationKind enumerates the single-use registration tokens the
// service mints outside of the scoped-connection-string flow.
type RegistrationKind string

const (
	RegistrationEmailConfirmation RegistrationKind = "email-confirmation"
	RegistrationPasswordReset     RegistrationKind = "password-reset"
	RegistrationTotpEnrollment    RegistrationKind = "totp-enrollment"
)

func (k RegistrationKind) meta() MetaKind {
	switch k {
	case RegistrationEmailConfirmation:
		return MetaEmailConfirmation
	case RegistrationPasswordReset:
		return MetaPasswordReset
	case RegistrationTotpEnrollment:
		return MetaTotpEnrollment
	default:
		return ""
	}
}

// IssueRegistrationToken mints a random 32-byte base64url token of the
// given kind, valid for ttl.
func (i *Issuer) IssueRegistrationToken(ctx context.Context, kind RegistrationKind, ttl time.Duration) (string, *mycerr.Error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", mycerr.ExecutionErr("generating registration token: " + err.Error())
	}
	id := base64.RawURLEncoding.EncodeToString(raw)

	token := Token{ID: id, Expiration: time.Now().Add(ttl), Meta: kind.meta()}
	if err := i.store.Issue(ctx, token); err != nil {
		return "", mycerr.InvalidRepositoryErr("persisting registration token: " + err.Error())
	}
	return id, nil
}
