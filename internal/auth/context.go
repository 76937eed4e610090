// Package auth carries the request's bearer token through the context.
// Tokens are opaque strings resolved server-side by the session
// registry; this package never interprets them.
package auth

import "context"

type tokenKey struct{}

func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}
