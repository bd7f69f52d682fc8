package core

import (
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RouterConfig carries the ambient HTTP settings NewRouter needs beyond
// Deps itself — the pieces that come from config.CoreConfig rather than
// from a persistence adapter.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires every Core handler behind the apimiddleware stack: the
// Gateway is the only caller, so every route but user registration trusts
// ProfileFromHeader rather than re-deriving identity from a bearer token.
func NewRouter(deps Deps, cfg RouterConfig) http.Handler {
	limiter := apimiddleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	router := chi.NewRouter()
	router.Use(apimiddleware.PanicRecovery)
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(apimiddleware.RequestLogger)
	router.Use(apimiddleware.CORS(cfg.AllowedOrigins))
	router.Use(limiter.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Post("/users/register", deps.registerUserDefaultAccount)

	router.Group(func(r chi.Router) {
		r.Use(apimiddleware.ProfileFromHeader)
		r.Use(apimiddleware.TenantContext)
		r.Use(apimiddleware.CSRF)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/subscription", deps.registerSubscriptionAccount)
			r.Post("/tenant-manager", deps.registerTenantManagerAccount)
			r.Post("/role-associated", deps.registerRoleAssociatedAccount)
			r.Post("/actor-associated", deps.registerActorAssociatedAccount)
			r.Patch("/{accountID}/status", deps.updateAccountStatus)
		})

		r.Route("/tenants", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(apimiddleware.RequireAdmin)
				r.Post("/", deps.createTenant)
			})
			r.Group(func(r chi.Router) {
				r.Use(tenantIDFromPath)
				r.Use(apimiddleware.RequireTenantOwnership)
				r.Patch("/{tenantID}/status", deps.updateTenantStatus)
				r.Post("/{tenantID}/transfer-ownership", deps.transferTenantOwnership)
			})
		})

		r.Route("/guests", func(r chi.Router) {
			r.Post("/", deps.grantGuest)
			r.Delete("/{grantID}", deps.revokeGuest)
			r.Post("/{grantID}/verify", deps.verifyGuest)
			r.Patch("/flags", deps.updateGuestFlags)
		})

		r.Route("/totp", func(r chi.Router) {
			r.Post("/start", deps.startTOTPActivation)
			r.Post("/finish", deps.finishTOTPActivation)
			r.Post("/disable", deps.disableTOTP)
		})

		r.Route("/tokens", func(r chi.Router) {
			r.Post("/role-scoped", deps.issueRoleScopedConnectionString)
			r.Post("/tenant-scoped", deps.issueTenantScopedConnectionString)
		})
	})

	return router
}
