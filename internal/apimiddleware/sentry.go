package apimiddleware

import (
	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/getsentry/sentry-go"
)

// SetSentryTenant tags the current Sentry scope with the tenant a request
// was scoped to.
func SetSentryTenant(tenantID, source string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("tenant_id", tenantID)
		scope.SetTag("tenant_source", source)
	})
}

// SetSentryProfile tags the current Sentry scope with the Profile a
// request is acting as, using the redacted owner identifier so no email
// reaches the error tracker unmasked.
func SetSentryProfile(profile dtos.Profile, ip string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: profile.AccID.String(), IPAddress: ip})
		scope.SetTag("profile", profile.ProfileRedacted())
	})
}
