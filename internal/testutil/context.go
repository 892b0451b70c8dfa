package testutil

import (
	"context"

	"github.com/flexprice/invoicedoc/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// SetupTenantContext is SetupContext for a specific tenant
func SetupTenantContext(tenantID string) context.Context {
	return types.SetTenantID(SetupContext(), tenantID)
}
