package middleware

import (
	"context"

	"github.com/sui-chat/api/internal/observability"
)

type ctxKey int

const walletKey ctxKey = iota

// WalletFromContext returns the authenticated wallet address, or "" when the
// request was not authenticated.
func WalletFromContext(ctx context.Context) string {
	v, _ := ctx.Value(walletKey).(string)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	return observability.RequestID(ctx)
}
