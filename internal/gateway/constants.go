// Package gateway implements the Gateway Router (C8): an http.Handler
// that matches inbound requests against a routing.Table, resolves and
// narrows the caller's identity, injects it and any route secret into
// the outbound request, and reverse-proxies to the matched downstream
// service.
package gateway

// Header names the gateway injects into (or reads from) downstream
// requests. Mirrors original_source's router.rs header constants.
const (
	DefaultProfileKey          = "x-mycelium-profile"
	DefaultConnectionStringKey = "x-mycelium-connection-string"
	DefaultRequestIDKey        = "x-mycelium-request-id"
	TenantIDHeader             = "x-mycelium-tenant-id"
)

// ForwardableResponseHeaders is the whitelist of headers the gateway
// copies back from the downstream response to the client. Hop-by-hop
// headers (Connection, Transfer-Encoding, ...) are deliberately excluded;
// httputil.ReverseProxy already strips those before ModifyResponse runs.
var ForwardableResponseHeaders = map[string]bool{
	"Content-Type":     true,
	"Content-Length":   true,
	"Content-Encoding": true,
	"Cache-Control":    true,
	"ETag":             true,
	"Location":         true,
	DefaultRequestIDKey: true,
}
