package apimiddleware

import (
	"log/slog"
	"net/http"
)

// RequireAdmin rejects any request whose Profile lacks staff or manager
// privileges. It must run after ProfileFromHeader.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := GetProfile(r.Context())
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if !profile.HasAdminPrivileges() {
			slog.Warn("rbac: insufficient privileges", "account_id", profile.AccID, "ip", r.RemoteAddr)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTenantOwnership rejects any request whose Profile does not own
// the tenant found in context (injected by TenantContext). It must run
// after both ProfileFromHeader and TenantContext.
func RequireTenantOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := GetProfile(r.Context())
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tenantID, err := GetTenantID(r.Context())
		if err != nil {
			http.Error(w, "missing tenant context", http.StatusBadRequest)
			return
		}

		if _, merr := profile.WithTenantOwnershipOrError(tenantID); merr != nil {
			slog.Warn("rbac: no tenant ownership", "account_id", profile.AccID, "tenant_id", tenantID)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
