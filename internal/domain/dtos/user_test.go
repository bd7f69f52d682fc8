package dtos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMarshalJSONRedactsSecrets(t *testing.T) {
	email := MustParse("alice@example.com")
	u := NewUser(email, "", time.Now())
	u.Provider = ProviderOfInternal(NewPasswordHash("$argon2id$v=19$m=65536,t=3,p=2$salt$hash"))
	u.MFA = MFA{Totp: TotpOfEnabled(true, "mycelium", "ciphertext-not-for-the-wire")}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "argon2id")
	assert.NotContains(t, body, "ciphertext-not-for-the-wire")
	assert.NotContains(t, body, "hash")
	assert.NotContains(t, body, "secret")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, true, decoded["hasMfa"])
	assert.Equal(t, "alice", decoded["username"])
}

func TestUserUsernameDefaultsToEmailLocalPart(t *testing.T) {
	u := NewUser(MustParse("bob@example.com"), "", time.Now())
	assert.Equal(t, "bob", u.Username)
}

func TestEmailRedacted(t *testing.T) {
	e := MustParse("alice@example.com")
	assert.Equal(t, "a***@example.com", e.Redacted())
}

func TestEmailParseRejectsMissingParts(t *testing.T) {
	_, err := Parse("missing-at-sign.com")
	require.Error(t, err)

	_, err = Parse("@example.com")
	require.Error(t, err)

	_, err = Parse("alice@")
	require.Error(t, err)
}
