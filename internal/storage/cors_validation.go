package storage

import (
	"errors"
	"strings"
)

// ValidateCORSOrigins rejects wildcard origins and enforces HTTPS-only
// origins (except localhost, for development). Called from
// config.parseOrigins so a misconfigured allow-list env var can't widen
// apimiddleware.CORS's allow-list past what's actually safe.
func ValidateCORSOrigins(origins []string) error {
	for _, origin := range origins {
		if origin == "*" {
			return errors.New("wildcard CORS origin not allowed")
		}
		if !strings.HasPrefix(origin, "https://") && !strings.HasPrefix(origin, "http://localhost") {
			return errors.New("only HTTPS origins allowed (except http://localhost for development)")
		}
		if origin == "" || strings.Contains(origin, " ") {
			return errors.New("invalid origin format")
		}
	}

	return nil
}
