// Package routing implements the Route Table (C7): an in-memory,
// read-mostly model of protocol, methods, security group and secret per
// downstream service, matched by the gateway on every inbound request.
package routing

import (
	"net/url"

	"github.com/google/uuid"
)

// Protocol is the scheme the gateway must use when it dials the
// downstream service for a Route.
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// PermissionedRole pairs a role name with the minimum permission rank a
// caller's licensed resource must carry to satisfy a
// ProtectedByPermissionedRoles / ProtectedByServiceTokenWithPermissionedRoles
// route.
type PermissionedRole struct {
	Role       string
	Permission int
}

// RouteTypeKind tags which security-group variant a Route carries.
type RouteTypeKind int

const (
	RouteTypePublic RouteTypeKind = iota
	RouteTypeProtected
	RouteTypeProtectedByRoles
	RouteTypeProtectedByPermissionedRoles
	RouteTypeProtectedByServiceTokenWithRole
	RouteTypeProtectedByServiceTokenWithPermissionedRoles
)

// RouteType is the tagged union describing how a Route is secured. Only
// the fields relevant to Kind are populated; build one with the
// RouteTypeOf* constructors.
type RouteType struct {
	Kind              RouteTypeKind
	Roles             []string
	PermissionedRoles []PermissionedRole
}

func RouteTypeOfPublic() RouteType    { return RouteType{Kind: RouteTypePublic} }
func RouteTypeOfProtected() RouteType { return RouteType{Kind: RouteTypeProtected} }

func RouteTypeOfProtectedByRoles(roles ...string) RouteType {
	return RouteType{Kind: RouteTypeProtectedByRoles, Roles: roles}
}

func RouteTypeOfProtectedByPermissionedRoles(pairs ...PermissionedRole) RouteType {
	return RouteType{Kind: RouteTypeProtectedByPermissionedRoles, PermissionedRoles: pairs}
}

func RouteTypeOfProtectedByServiceTokenWithRole(roles ...string) RouteType {
	return RouteType{Kind: RouteTypeProtectedByServiceTokenWithRole, Roles: roles}
}

func RouteTypeOfProtectedByServiceTokenWithPermissionedRoles(pairs ...PermissionedRole) RouteType {
	return RouteType{Kind: RouteTypeProtectedByServiceTokenWithPermissionedRoles, PermissionedRoles: pairs}
}

// RequiresProfile reports whether this route type requires a caller
// identity to be resolved before the gateway may forward the request.
func (t RouteType) RequiresProfile() bool { return t.Kind != RouteTypePublic }

// RequiresServiceToken reports whether authorization for this route comes
// from a scoped connection string rather than a session JWT.
func (t RouteType) RequiresServiceToken() bool {
	return t.Kind == RouteTypeProtectedByServiceTokenWithRole ||
		t.Kind == RouteTypeProtectedByServiceTokenWithPermissionedRoles
}

// HTTPMethodAll and HTTPMethodNone are the sentinel method-set tokens:
// a route matching ALL accepts every method, one matching NONE accepts
// none (always 405) — used to temporarily disable a route without
// removing it from the table.
const (
	HTTPMethodAll  = "ALL"
	HTTPMethodNone = "NONE"
)

// Service identifies the downstream target a Route forwards to.
type Service struct {
	ID   uuid.UUID
	Name string
	Host string // scheme://host[:port], no trailing path
}

// Route is one entry in the gateway's route table.
type Route struct {
	ID                     uuid.UUID
	Service                Service
	Group                  RouteType
	Path                   string
	Protocol               Protocol
	Methods                []string
	Secret                 *HTTPSecret
	AcceptInsecureRouting  bool
}

// AcceptsMethod reports whether method is permitted by this route's
// method set, honoring the ALL/NONE sentinel tokens.
func (r Route) AcceptsMethod(method string) bool {
	for _, m := range r.Methods {
		if m == HTTPMethodAll {
			return true
		}
		if m == HTTPMethodNone {
			return false
		}
		if m == method {
			return true
		}
	}
	return false
}

// TargetURL builds the full downstream URL for an incoming request whose
// path has already had the route's Path prefix stripped.
func (r Route) TargetURL(downstreamPath string) (*url.URL, error) {
	base, err := url.Parse(r.Service.Host)
	if err != nil {
		return nil, err
	}
	base.Path = singleJoiningSlash(base.Path, downstreamPath)
	return base, nil
}

func singleJoiningSlash(a, b string) string {
	aSlash := len(a) > 0 && a[len(a)-1] == '/'
	bSlash := len(b) > 0 && b[0] == '/'
	switch {
	case aSlash && bSlash:
		return a + b[1:]
	case !aSlash && !bSlash:
		return a + "/" + b
	default:
		return a + b
	}
}
