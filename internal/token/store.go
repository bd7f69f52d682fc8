package token

import (
	"context"
	"time"
)

// MetaKind tags what a persisted Token's Meta field represents.
type MetaKind string

const (
	MetaRoleScopedConnectionString   MetaKind = "role-scoped-connection-string"
	MetaTenantScopedConnectionString MetaKind = "tenant-scoped-connection-string"
	MetaEmailConfirmation            MetaKind = "email-confirmation"
	MetaPasswordReset                MetaKind = "password-reset"
	MetaTotpEnrollment               MetaKind = "totp-enrollment"
)

// Token is the persisted record behind every opaque string this service
// hands out: a connection string resolves to one by id, a registration
// token is checked and invalidated by the same id.
type Token struct {
	ID         string
	Expiration time.Time
	Meta       MetaKind
}

func (t Token) IsExpired(now time.Time) bool { return now.After(t.Expiration) }

// Store is the persistence port for Token records. Concrete storage is
// out of scope; use-cases depend on this interface.
type Store interface {
	Issue(ctx context.Context, t Token) error
	Get(ctx context.Context, id string) (Token, error)
	CheckAndInvalidate(ctx context.Context, id string) (Token, error)
}
