package apimiddleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
)

// Header names the Gateway injects before proxying here. Must match
// internal/gateway.DefaultProfileKey / DefaultRequestIDKey; kept as local
// constants rather than an import of internal/gateway so that package can
// depend on apimiddleware.StatusForError without a cycle.
const (
	profileHeader   = "x-mycelium-profile"
	requestIDHeader = "x-mycelium-request-id"
)

// ProfileFromHeader decodes the Profile the Gateway already narrowed and
// injected, and rejects any request that reaches this surface without one
// — Core's own API is never exposed directly, only behind the Gateway.
func ProfileFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(profileHeader)
		if raw == "" {
			http.Error(w, "missing profile context", http.StatusUnauthorized)
			return
		}

		var profile dtos.Profile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			slog.Warn("malformed profile header", "error", err, "ip", r.RemoteAddr)
			http.Error(w, "malformed profile context", http.StatusUnauthorized)
			return
		}

		ctx := WithProfile(r.Context(), profile)
		if reqID := r.Header.Get(requestIDHeader); reqID != "" {
			ctx = WithRequestID(ctx, reqID)
		}

		SetSentryProfile(profile, r.RemoteAddr)
		if tenantID := r.Header.Get(tenantIDHeader); tenantID != "" {
			SetSentryTenant(tenantID, "header")
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
