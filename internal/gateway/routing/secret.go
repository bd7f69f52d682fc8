package routing

import (
	"net/http"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/mycerr"
)

// HTTPSecretKind tags which injection variant an HTTPSecret uses.
type HTTPSecretKind int

const (
	HTTPSecretAuthorizationHeader HTTPSecretKind = iota
	HTTPSecretQueryParameter
)

// HTTPSecret is the tagged union describing a per-route secret the
// gateway injects into the downstream request. It is never logged and
// never echoed back to the caller.
type HTTPSecret struct {
	Kind   HTTPSecretKind
	Name   string
	Prefix string
	Token  string
}

// HTTPSecretOfAuthorizationHeader builds a secret injected as an HTTP
// header. name defaults to "Authorization" and prefix to "Bearer " when
// empty.
func HTTPSecretOfAuthorizationHeader(name, prefix, token string) HTTPSecret {
	if name == "" {
		name = "Authorization"
	}
	if prefix == "" {
		prefix = "Bearer "
	}
	return HTTPSecret{Kind: HTTPSecretAuthorizationHeader, Name: name, Prefix: prefix, Token: token}
}

func HTTPSecretOfQueryParameter(name, token string) HTTPSecret {
	return HTTPSecret{Kind: HTTPSecretQueryParameter, Name: name, Token: token}
}

// Apply injects the secret into req, enforcing the plaintext-safety rule:
// refuses to inject over a non-TLS hop unless acceptInsecureRouting
// (either the gateway listener or the downstream scheme) was explicitly
// opted into.
func (s HTTPSecret) Apply(req *http.Request, gatewayIsTLS, downstreamIsHTTPS, acceptInsecureRouting bool) *mycerr.Error {
	if (!gatewayIsTLS || !downstreamIsHTTPS) && !acceptInsecureRouting {
		return mycerr.ExecutionErr("refusing to inject route secret over a non-TLS hop")
	}

	switch s.Kind {
	case HTTPSecretAuthorizationHeader:
		req.Header.Set(s.Name, s.Prefix+s.Token)
	case HTTPSecretQueryParameter:
		q := req.URL.Query()
		q.Set(s.Name, s.Token)
		req.URL.RawQuery = q.Encode()
	}
	return nil
}
