package apimiddleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Must match internal/gateway.TenantIDHeader.
const tenantIDHeader = "x-mycelium-tenant-id"

// TenantContext reads the optional x-mycelium-tenant-id header — the same
// header the Gateway uses to narrow a session Profile to one tenant — and
// injects it into context for handlers that want to scope a query without
// re-deriving it from the Profile's TenantsOwnership on every call.
func TenantContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(tenantIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			slog.Warn("invalid tenant id header", "value", raw, "ip", r.RemoteAddr)
			http.Error(w, "invalid tenant id", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), tenantID)))
	})
}
