package token

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	tokens map[string]Token
}

func newMemStore() *memStore { return &memStore{tokens: map[string]Token{}} }

func (s *memStore) Issue(_ context.Context, t Token) error {
	s.tokens[t.ID] = t
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (Token, error) {
	t, ok := s.tokens[id]
	if !ok {
		return Token{}, fmt.Errorf("not found")
	}
	return t, nil
}

func (s *memStore) CheckAndInvalidate(_ context.Context, id string) (Token, error) {
	t, ok := s.tokens[id]
	if !ok {
		return Token{}, fmt.Errorf("not found")
	}
	delete(s.tokens, id)
	return t, nil
}

func TestSessionProviderEncodeDecode(t *testing.T) {
	p := NewSessionProvider([]byte("super-secret-key"), time.Hour)
	userID := uuid.New()

	signed, err := p.Encode(userID, "alice@example.com", true)
	require.NoError(t, err)

	claims, err := p.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.MFARequired)
}

func TestSessionProviderRejectsExpired(t *testing.T) {
	p := NewSessionProvider([]byte("super-secret-key"), -time.Minute)
	signed, err := p.Encode(uuid.New(), "alice@example.com", false)
	require.NoError(t, err)

	_, err = p.Decode(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionProviderRejectsWrongKey(t *testing.T) {
	p := NewSessionProvider([]byte("key-one"), time.Hour)
	signed, err := p.Encode(uuid.New(), "alice@example.com", false)
	require.NoError(t, err)

	other := NewSessionProvider([]byte("key-two"), time.Hour)
	_, err = other.Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConnectionScopeOpaqueRoundTrip(t *testing.T) {
	scope := RoleWithPermissionsScope{
		TenantID:   uuid.New(),
		AccountID:  uuid.New(),
		Expiration: time.Now().Add(time.Hour).Truncate(time.Second),
		PermissionedRoles: []PermissionedRole{
			{Role: "service", Permission: dtos.PermissionWrite},
		},
	}

	opaque, err := EncodeScope(scope)
	require.NoError(t, err)
	assert.NotContains(t, opaque, "tenantId")

	decoded, derr := DecodeScope(opaque)
	require.Nil(t, derr)
	roleScope, ok := decoded.(RoleWithPermissionsScope)
	require.True(t, ok)
	assert.Equal(t, scope.TenantID, roleScope.TenantID)
	assert.Equal(t, scope.PermissionedRoles, roleScope.PermissionedRoles)
}

func TestDecodeScopeRejectsGarbage(t *testing.T) {
	_, err := DecodeScope("not-base64!!")
	require.NotNil(t, err)
	assert.True(t, err.HasCode("MYC00020"))
}

func TestIssuerIssueConnectionStringRequiresAuthority(t *testing.T) {
	store := newMemStore()
	issuer := NewIssuer(store)
	tenantID := uuid.New()

	scope := TenantWithPermissionsScope{TenantID: tenantID, Expiration: time.Now().Add(time.Hour)}

	unauthorized := dtos.Profile{AccID: uuid.New()}
	_, err := issuer.IssueConnectionString(context.Background(), unauthorized, scope)
	require.NotNil(t, err)
	assert.True(t, err.HasCode("MYC00019"))

	owner := dtos.Profile{
		AccID:            uuid.New(),
		TenantsOwnership: []dtos.TenantOwnership{{Tenant: tenantID}},
	}
	opaque, err := issuer.IssueConnectionString(context.Background(), owner, scope)
	require.Nil(t, err)
	assert.NotEmpty(t, opaque)
}

func TestResolverResolveRoundTrip(t *testing.T) {
	store := newMemStore()
	issuer := NewIssuer(store)
	resolver := NewResolver(store)
	tenantID := uuid.New()

	staff := dtos.Profile{AccID: uuid.New(), IsStaff: true}
	scope := TenantWithPermissionsScope{TenantID: tenantID, Expiration: time.Now().Add(time.Hour)}

	opaque, err := issuer.IssueConnectionString(context.Background(), staff, scope)
	require.Nil(t, err)

	resolved, rerr := resolver.Resolve(context.Background(), opaque)
	require.Nil(t, rerr)
	tenantScope, ok := resolved.(TenantWithPermissionsScope)
	require.True(t, ok)
	assert.Equal(t, tenantID, tenantScope.TenantID)
}

func TestResolverRejectsUnknownToken(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store)

	scope := TenantWithPermissionsScope{TenantID: uuid.New(), Expiration: time.Now().Add(time.Hour)}
	opaque, err := EncodeScope(scope)
	require.NoError(t, err)

	_, rerr := resolver.Resolve(context.Background(), opaque)
	require.NotNil(t, rerr)
	assert.True(t, rerr.HasCode("MYC00013"))
}

func TestIssuerRegistrationTokenRoundTrip(t *testing.T) {
	store := newMemStore()
	issuer := NewIssuer(store)
	resolver := NewResolver(store)

	id, err := issuer.IssueRegistrationToken(context.Background(), RegistrationEmailConfirmation, time.Hour)
	require.Nil(t, err)

	rerr := resolver.ResolveRegistrationToken(context.Background(), id, RegistrationEmailConfirmation)
	assert.Nil(t, rerr)

	// single use: the second check must fail now that it's invalidated
	rerr = resolver.ResolveRegistrationToken(context.Background(), id, RegistrationEmailConfirmation)
	assert.NotNil(t, rerr)
}
