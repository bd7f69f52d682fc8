// Package apimiddleware carries the ambient HTTP concerns for Core's own
// REST surface: it trusts the Gateway to have already authenticated the
// caller and narrowed their Profile, and limits itself to decoding what
// the Gateway already injected, plus logging, recovery, rate limiting and
// CORS for the handful of routes the Gateway proxies here.
package apimiddleware

import (
	"context"
	"fmt"

	"github.com/LepistaBioinformatics/mycelium-sub000/internal/domain/dtos"
	"github.com/google/uuid"
)

type contextKey string

const (
	profileKey   contextKey = "mycelium_profile"
	requestIDKey contextKey = "mycelium_request_id"
	tenantIDKey  contextKey = "mycelium_tenant_id"
)

// WithProfile attaches profile to ctx.
func WithProfile(ctx context.Context, profile dtos.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// GetProfile retrieves the Profile the ProfileFromHeader middleware decoded
// from the Gateway's injected header.
func GetProfile(ctx context.Context) (dtos.Profile, error) {
	val := ctx.Value(profileKey)
	if val == nil {
		return dtos.Profile{}, fmt.Errorf("profile not found in context")
	}
	profile, ok := val.(dtos.Profile)
	if !ok {
		return dtos.Profile{}, fmt.Errorf("profile has wrong type: %T", val)
	}
	return profile, nil
}

// MustGetProfile panics if no Profile was injected; reserved for handlers
// mounted behind ProfileFromHeader, where this is always a bug otherwise.
func MustGetProfile(ctx context.Context) dtos.Profile {
	profile, err := GetProfile(ctx)
	if err != nil {
		panic(fmt.Sprintf("apimiddleware: %v", err))
	}
	return profile
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithTenantID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, id)
}

func GetTenantID(ctx context.Context) (uuid.UUID, error) {
	val := ctx.Value(tenantIDKey)
	if val == nil {
		return uuid.Nil, fmt.Errorf("tenant_id not found in context")
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("tenant_id has wrong type: %T", val)
	}
	return id, nil
}
