package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxTenantID  ContextKey = "ctx_tenant_id"

	HeaderRequestID = "X-Request-ID"
	HeaderTenantID  = "X-Tenant-ID"

	DefaultTenantID = "00000000-0000-0000-0000-000000000000"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetTenantID returns the tenant scoping the request, DefaultTenantID when unset
func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(CtxTenantID).(string); ok && tenantID != "" {
		return tenantID
	}
	return DefaultTenantID
}

// SetTenantID sets the tenant ID in the context
func SetTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, CtxTenantID, tenantID)
}
