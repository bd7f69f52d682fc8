package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/apimiddleware"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/relatedaccounts"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/callback"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/gateway/routing"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/token"
	"github.com/google/uuid"
)

// ProfileResolver narrows a caller's identity down to the dtos.Profile
// the routing.RouteType filters run against. The gateway depends only on
// this interface; internal/usecase supplies the concrete implementation
// built on the persistence ports.
type ProfileResolver interface {
	BuildProfile(ctx context.Context, userID uuid.UUID) (dtos.Profile, *mycerr.Error)
}

// Gateway is the reverse-proxying http.Handler matching spec.md §4.6: it
// looks up the route, resolves and narrows caller identity, injects
// profile/secret headers, and forwards to the downstream service.
type Gateway struct {
	Table    *routing.Table
	Sessions *token.SessionProvider
	Resolver *token.Resolver
	Profiles ProfileResolver
	Logger   *slog.Logger

	// Callbacks notifies registered webhook targets after a proxied
	// request completes. Nil disables the pipeline entirely, matching
	// internal/usecase's nil-safe audit.Service wiring.
	Callbacks *callback.Pipeline

	// GatewayIsTLS reports whether this listener terminates TLS; fed to
	// routing.HTTPSecret.Apply's plaintext-safety check.
	GatewayIsTLS bool
	// Timeout bounds how long a single proxied request may run before the
	// gateway answers 504.
	Timeout time.Duration

	inFlight sync.Map // request id (string) -> context.CancelFunc
}

func New(table *routing.Table, sessions *token.SessionProvider, resolver *token.Resolver, profiles ProfileResolver, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		Table:    table,
		Sessions: sessions,
		Resolver: resolver,
		Profiles: profiles,
		Logger:   logger,
		Timeout:  30 * time.Second,
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, result := g.Table.Match(r.URL.Path, r.Method)
	switch result {
	case routing.MatchNotFound:
		http.Error(w, "route not found", http.StatusNotFound)
		return
	case routing.MatchMethodNotAllowed:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New()
	w.Header().Set(DefaultRequestIDKey, requestID.String())

	if route.Group.RequiresProfile() {
		if merr := g.authorize(r, route); merr != nil {
			apimiddleware.WriteError(w, merr)
			return
		}
	}

	if route.Secret != nil {
		downstreamIsHTTPS := route.Protocol == routing.ProtocolHTTPS
		if merr := route.Secret.Apply(r, g.GatewayIsTLS, downstreamIsHTTPS, route.AcceptInsecureRouting); merr != nil {
			apimiddleware.WriteError(w, merr)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.Timeout)
	defer cancel()
	g.inFlight.Store(requestID.String(), cancel)
	defer g.inFlight.Delete(requestID.String())

	downstreamPath := strings.TrimPrefix(r.URL.Path, route.Path)
	target, err := route.TargetURL(downstreamPath)
	if err != nil {
		g.Logger.Error("gateway: bad downstream target", "route", route.Path, "error", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	startedAt := time.Now()
	proxy := g.buildProxy(route, target, requestID, startedAt)
	proxy.ServeHTTP(w, r.WithContext(ctx))
}

// authorize resolves the caller's identity (session JWT for normal
// routes, scoped connection string for ProtectedByServiceToken* routes),
// narrows it via the Profile cascade filters to match the route's
// required roles, and injects it as the DefaultProfileKey header.
func (g *Gateway) authorize(r *http.Request, route routing.Route) *mycerr.Error {
	var profile dtos.Profile

	if route.Group.RequiresServiceToken() {
		opaque := r.Header.Get(DefaultConnectionStringKey)
		if opaque == "" {
			return mycerr.UseCaseErr("missing connection string").WithCode(mycerr.MYC00013)
		}
		scope, merr := g.Resolver.Resolve(r.Context(), opaque)
		if merr != nil {
			return merr
		}
		if _, merr := relatedAccountsFromScope(scope, route.Group); merr != nil {
			return merr
		}
		profile = minimalProfileFromScope(scope)
	} else {
		claims, err := g.sessionClaims(r)
		if err != nil {
			return mycerr.UseCaseErr("invalid session token").WithCode(mycerr.MYC00013).WithPrevious(err)
		}
		built, merr := g.Profiles.BuildProfile(r.Context(), claims.UserID)
		if merr != nil {
			return merr
		}

		if tenantHeader := r.Header.Get(TenantIDHeader); tenantHeader != "" {
			tenantID, err := uuid.Parse(tenantHeader)
			if err != nil {
				return mycerr.InvalidArgumentErr("malformed tenant id header")
			}
			built = built.OnTenant(tenantID)
		}
		built = narrowByRouteType(built, route.Group)

		if _, merr := built.GetRelatedAccountOrError(); merr != nil {
			return merr
		}
		profile = built
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return mycerr.ExecutionErr("failed to encode profile").WithPrevious(err)
	}
	r.Header.Set(DefaultProfileKey, string(encoded))
	return nil
}

func (g *Gateway) sessionClaims(r *http.Request) (*token.SessionClaims, error) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, token.ErrInvalidToken
	}
	return g.Sessions.Decode(parts[1])
}

// minimalProfileFromScope builds the Profile injected as the
// DefaultProfileKey header for a service-token route: just enough
// identity (owning account, tenant) for the downstream service to log
// and scope its own queries, since a scoped connection string already
// carries the authorization decision rather than a licensed-resource set.
func minimalProfileFromScope(scope token.ConnectionScope) dtos.Profile {
	switch s := scope.(type) {
	case token.RoleWithPermissionsScope:
		return dtos.Profile{
			AccID:            s.AccountID,
			TenantsOwnership: []dtos.TenantOwnership{{Tenant: s.TenantID}},
		}
	case token.TenantWithPermissionsScope:
		return dtos.Profile{TenantsOwnership: []dtos.TenantOwnership{{Tenant: s.TenantID}}}
	default:
		return dtos.Profile{}
	}
}

// relatedAccountsFromScope is the service-token counterpart to
// Profile.GetRelatedAccountOrError: it checks the resolved scope's granted
// permissioned roles against the route's required roles directly, since a
// connection-string scope carries its grant explicitly rather than a
// filterable licensed-resource list.
func relatedAccountsFromScope(scope token.ConnectionScope, group routing.RouteType) (relatedaccounts.RelatedAccounts, *mycerr.Error) {
	var granted []token.PermissionedRole
	var tenantID uuid.UUID
	var accountID uuid.UUID
	hasAccount := false

	switch s := scope.(type) {
	case token.RoleWithPermissionsScope:
		granted, tenantID, accountID, hasAccount = s.PermissionedRoles, s.TenantID, s.AccountID, true
	case token.TenantWithPermissionsScope:
		granted, tenantID = s.PermissionedRoles, s.TenantID
	default:
		return relatedaccounts.RelatedAccounts{}, mycerr.UndefinedErr("unrecognised connection scope")
	}

	required := routeRequiredRoles(group)
	var matched []relatedaccounts.RoleGrant
	for _, req := range required {
		for _, g := range granted {
			if g.Role == req.Role && g.Permission.Rank() >= req.Permission {
				matched = append(matched, relatedaccounts.RoleGrant{Role: g.Role, Permission: g.Permission.Rank()})
			}
		}
	}
	if len(matched) == 0 {
		return relatedaccounts.RelatedAccounts{}, mycerr.ExecutionErr("connection string does not grant the required role").WithCode(mycerr.MYC00019)
	}
	if hasAccount {
		return relatedaccounts.AllowedAccounts([]uuid.UUID{accountID}), nil
	}
	return relatedaccounts.HasTenantWidePrivileges(tenantID), nil
}

func routeRequiredRoles(group routing.RouteType) []routing.PermissionedRole {
	switch group.Kind {
	case routing.RouteTypeProtectedByServiceTokenWithRole:
		out := make([]routing.PermissionedRole, len(group.Roles))
		for i, r := range group.Roles {
			out[i] = routing.PermissionedRole{Role: r}
		}
		return out
	case routing.RouteTypeProtectedByServiceTokenWithPermissionedRoles:
		return group.PermissionedRoles
	default:
		return nil
	}
}

// narrowByRouteType applies the Profile cascade filters matching the
// route's required roles/permissioned-roles, mirroring
// original_source::router.rs::route_request's authorization narrowing.
func narrowByRouteType(profile dtos.Profile, group routing.RouteType) dtos.Profile {
	switch group.Kind {
	case routing.RouteTypeProtectedByRoles:
		return profile.WithRoles(group.Roles...)
	case routing.RouteTypeProtectedByPermissionedRoles:
		roles := make([]string, len(group.PermissionedRoles))
		for i, pr := range group.PermissionedRoles {
			roles[i] = pr.Role
		}
		return profile.WithRoles(roles...)
	default:
		return profile
	}
}

// buildProxy builds a one-shot ReverseProxy for a single matched route,
// generalizing other_examples' createProxy pattern: the Director rewrites
// scheme/host/path to the route's downstream target, ErrorHandler maps
// connect/TLS/timeout failures to 502/500/504.
func (g *Gateway) buildProxy(route routing.Route, target *url.URL, requestID uuid.UUID, startedAt time.Time) *httputil.ReverseProxy {
	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.URL.Path = target.Path
			req.Host = target.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			g.Logger.Warn("gateway: downstream error", "route", route.Path, "service", route.Service.Name, "error", err)

			var tlsErr tls.RecordHeaderError
			var opErr *net.OpError
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
			case errors.As(err, &tlsErr):
				http.Error(w, "downstream tls error", http.StatusInternalServerError)
			case errors.As(err, &opErr):
				http.Error(w, "bad gateway", http.StatusBadGateway)
			default:
				http.Error(w, "bad gateway", http.StatusBadGateway)
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			if g.Callbacks != nil {
				g.Callbacks.Run(callback.CallbackContext{
					RequestID: requestID,
					Method:    resp.Request.Method,
					Path:      route.Path,
					Status:    resp.StatusCode,
					Headers:   resp.Header,
					StartedAt: startedAt,
				})
			}
			for name := range resp.Header {
				if !ForwardableResponseHeaders[name] {
					resp.Header.Del(name)
				}
			}
			return nil
		},
	}
	return proxy
}

