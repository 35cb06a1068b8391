package auth

import (
	"context"

	"github.com/af-corp/autodaily/internal/types"
)

type contextKey string

const credentialsContextKey contextKey = "autodaily_credentials"

func ContextWithCredentials(ctx context.Context, creds types.Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey, creds)
}

// CredentialsFromContext returns the credentials attached by Middleware.
func CredentialsFromContext(ctx context.Context) (types.Credentials, bool) {
	creds, ok := ctx.Value(credentialsContextKey).(types.Credentials)
	return creds, ok
}
