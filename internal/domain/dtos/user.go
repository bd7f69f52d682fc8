package dtos

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProviderKind tags whether a User authenticates with a local password or
// through an external identity provider.
type ProviderKind int

const (
	ProviderInternal ProviderKind = iota
	ProviderExternal
)

// Provider is the tagged union over a User's authentication source. Hash
// is only ever populated for ProviderInternal and must never survive
// JSON serialisation — see User.MarshalJSON.
type Provider struct {
	Kind   ProviderKind
	Hash   PasswordHash
	Issuer string
}

func ProviderOfInternal(hash PasswordHash) Provider {
	return Provider{Kind: ProviderInternal, Hash: hash}
}

func ProviderOfExternal(issuer string) Provider {
	return Provider{Kind: ProviderExternal, Issuer: issuer}
}

// TotpKind tags a User's TOTP enrollment state.
type TotpKind int

const (
	TotpDisabled TotpKind = iota
	TotpUnknown
	TotpEnabled
)

// Totp is the tagged union over TOTP state. Secret holds the
// AEAD-encrypted secret (see internal/credential) and, like
// Provider.Hash, must never survive JSON serialisation.
type Totp struct {
	Kind     TotpKind
	Verified bool
	Issuer   string
	Secret   string
}

func TotpOfDisabled() Totp { return Totp{Kind: TotpDisabled} }
func TotpOfUnknown() Totp  { return Totp{Kind: TotpUnknown} }

func TotpOfEnabled(verified bool, issuer, encryptedSecret string) Totp {
	return Totp{Kind: TotpEnabled, Verified: verified, Issuer: issuer, Secret: encryptedSecret}
}

// MFA bundles every second-factor a User may enroll in. Only Totp exists
// today; the struct leaves room for future factors without breaking
// callers that only care about Totp.
type MFA struct {
	Totp Totp
}

// User is a human or service identity. Username defaults to the email's
// local part when not explicitly set. MarshalJSON enforces the
// never-serialize-secrets invariant regardless of call site.
type User struct {
	ID          uuid.UUID
	Username    string
	Email       Email
	FirstName   string
	LastName    string
	IsActive    bool
	IsPrincipal bool
	Created     time.Time
	Updated     *time.Time
	AccountID   *uuid.UUID
	Provider    Provider
	MFA         MFA
}

// NewUser builds a User defaulting Username to the email's local part
// when username is empty.
func NewUser(email Email, username string, created time.Time) User {
	if username == "" {
		username = email.Username()
	}
	return User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		IsActive: true,
		Created:  created,
		Provider: ProviderOfInternal(PasswordHash{}),
		MFA:      MFA{Totp: TotpOfDisabled()},
	}
}

// userWireFormat mirrors User but with every secret-bearing field
// blanked; it's the only shape that ever crosses encoding/json.
type userWireFormat struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       Email      `json:"email"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	IsActive    bool       `json:"isActive"`
	IsPrincipal bool       `json:"isPrincipal"`
	Created     time.Time  `json:"created"`
	Updated     *time.Time `json:"updated,omitempty"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
	HasMFA      bool       `json:"hasMfa"`
}

// MarshalJSON redacts Provider.Hash and MFA.Totp.Secret unconditionally:
// the wire format never carries either field, only a HasMFA flag.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userWireFormat{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsPrincipal: u.IsPrincipal,
		Created:     u.Created,
		Updated:     u.Updated,
		AccountID:   u.AccountID,
		HasMFA:      u.MFA.Totp.Kind == TotpEnabled,
	})
}
