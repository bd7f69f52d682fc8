package apimiddleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFromHeaderRejectsMissingHeader(t *testing.T) {
	handler := apimiddleware.ProfileFromHeader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a profile header")
	}))

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfileFromHeaderInjectsDecodedProfile(t *testing.T) {
	accID := uuid.New()
	raw, err := json.Marshal(dtos.Profile{AccID: accID})
	require.NoError(t, err)

	var captured dtos.Profile
	handler := apimiddleware.ProfileFromHeader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = apimiddleware.MustGetProfile(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set("x-mycelium-profile", string(raw))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, accID, captured.AccID)
}

func TestTenantContextRejectsInvalidUUID(t *testing.T) {
	handler := apimiddleware.TenantContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with an invalid tenant id")
	}))

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set("x-mycelium-tenant-id", "not-a-uuid")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTenantContextPassesThroughWithoutHeader(t *testing.T) {
	handler := apimiddleware.TenantContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := apimiddleware.GetTenantID(r.Context())
		assert.Error(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdminRejectsNonAdminProfile(t *testing.T) {
	handler := apimiddleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for a non-admin profile")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(apimiddleware.WithProfile(req.Context(), dtos.Profile{}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdminAllowsStaffProfile(t *testing.T) {
	handler := apimiddleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(apimiddleware.WithProfile(req.Context(), dtos.Profile{IsStaff: true}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORSReflectsAllowedOriginOnly(t *testing.T) {
	handler := apimiddleware.CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	allowed.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, allowed)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	rejected := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rejected.Header.Set("Origin", "https://evil.example.com")
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, rejected)
	assert.Empty(t, rr2.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusForErrorMapsUseCaseErrorsToForbidden(t *testing.T) {
	err := mycerr.UseCaseErr("insufficient privileges").WithCode(mycerr.MYC00019)
	assert.Equal(t, http.StatusForbidden, apimiddleware.StatusForError(err))
}

func TestStatusForErrorDistinguishesUnauthenticatedFromUnauthorised(t *testing.T) {
	unauthenticated := mycerr.UseCaseErr("invalid session token").WithCode(mycerr.MYC00013)
	assert.Equal(t, http.StatusUnauthorized, apimiddleware.StatusForError(unauthenticated))

	unauthorised := mycerr.ExecutionErr("insufficient privileges").WithCode(mycerr.MYC00019)
	assert.Equal(t, http.StatusForbidden, apimiddleware.StatusForError(unauthorised))
}

func TestStatusForErrorMapsCreationConflictsToConflict(t *testing.T) {
	err := mycerr.CreationErr("account already exists").WithCode(mycerr.MYC00003)
	assert.Equal(t, http.StatusConflict, apimiddleware.StatusForError(err))
}

func TestWriteErrorRendersStableBody(t *testing.T) {
	rr := httptest.NewRecorder()
	apimiddleware.WriteError(rr, mycerr.InvalidArgumentErr("bad input").WithCode(mycerr.MYC00020))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, mycerr.MYC00020, body.Code)
}
