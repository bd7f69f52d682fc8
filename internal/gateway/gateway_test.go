package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/routing"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	tokens map[string]token.Token
}

func (s *memStore) Issue(_ context.Context, t token.Token) error {
	s.tokens[t.ID] = t
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (token.Token, error) {
	t, ok := s.tokens[id]
	if !ok {
		return token.Token{}, assert.AnError
	}
	return t, nil
}

func (s *memStore) CheckAndInvalidate(ctx context.Context, id string) (token.Token, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return token.Token{}, err
	}
	delete(s.tokens, id)
	return t, nil
}

type fakeProfiles struct {
	profile dtos.Profile
}

func (f fakeProfiles) BuildProfile(_ context.Context, _ uuid.UUID) (dtos.Profile, *mycerr.Error) {
	return f.profile, nil
}

func newTestProfile(tenantID, accountID uuid.UUID) dtos.Profile {
	return dtos.Profile{
		AccID: accountID,
		LicensedResources: []dtos.LicensedResource{
			{AccID: accountID, TenantID: tenantID, RoleName: "svc", Permission: dtos.PermissionWrite, Verified: true},
			{AccID: accountID, TenantID: tenantID, RoleName: "billing", Permission: dtos.PermissionWrite, Verified: true},
		},
	}
}

func TestGatewayMethodNotAllowedAlwaysAnswers405(t *testing.T) {
	table := routing.NewTable([]routing.Route{
		{ID: uuid.New(), Path: "/svc", Methods: []string{"GET"}, Group: routing.RouteTypeOfPublic()},
	})
	gw := New(table, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/svc/anything", nil)
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGatewayNoneSentinelAlwaysRejects(t *testing.T) {
	table := routing.NewTable([]routing.Route{
		{ID: uuid.New(), Path: "/disabled", Methods: []string{routing.HTTPMethodNone}, Group: routing.RouteTypeOfPublic()},
	})
	gw := New(table, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/disabled/x", nil)
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// TestGatewayInjectsNarrowedProfileAndSecret exercises scenario S6: a
// ProtectedByRoles{"svc"} route narrows the resolved Profile to its
// "svc"-role licensed resources only, replaces Authorization with the
// route's own secret, and streams the downstream body unmodified.
func TestGatewayInjectsNarrowedProfileAndSecret(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()

	var receivedProfile dtos.Profile
	var receivedAuth string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get(DefaultProfileKey)), &receivedProfile))
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("downstream body"))
	}))
	defer downstream.Close()

	secret := routing.HTTPSecretOfAuthorizationHeader("", "", "svc-secret-token")
	table := routing.NewTable([]routing.Route{
		{
			ID:                    uuid.New(),
			Path:                  "/svc",
			Methods:               []string{"GET"},
			Group:                 routing.RouteTypeOfProtectedByRoles("svc"),
			Protocol:              routing.ProtocolHTTP,
			Secret:                &secret,
			AcceptInsecureRouting: true,
			Service:               routing.Service{Name: "svc", Host: downstream.URL},
		},
	})

	sessions := token.NewSessionProvider([]byte("test-secret"), time.Hour)
	sessionToken, err := sessions.Encode(accountID, "user@example.com", false)
	require.NoError(t, err)

	gw := New(table, sessions, token.NewResolver(&memStore{tokens: map[string]token.Token{}}), fakeProfiles{profile: newTestProfile(tenantID, accountID)}, nil)
	gw.GatewayIsTLS = true

	req := httptest.NewRequest(http.MethodGet, "/svc/resource", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken)
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "downstream body", w.Body.String())
	assert.Equal(t, "Bearer svc-secret-token", receivedAuth)
	require.Len(t, receivedProfile.LicensedResources, 1)
	assert.Equal(t, "svc", receivedProfile.LicensedResources[0].RoleName)
}

func TestGatewayRejectsMissingSessionToken(t *testing.T) {
	table := routing.NewTable([]routing.Route{
		{ID: uuid.New(), Path: "/svc", Methods: []string{"GET"}, Group: routing.RouteTypeOfProtected()},
	})
	gw := New(table, token.NewSessionProvider([]byte("s"), time.Hour), token.NewResolver(&memStore{tokens: map[string]token.Token{}}), fakeProfiles{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/svc/x", nil)
	w := httptest.NewRecorder()
	gw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
