package auth

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the verified claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// FromContext returns the claims stored by NewContext, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	return claims, ok
}

// Username returns the signed-in admin, or "" outside an authenticated request.
func Username(ctx context.Context) string {
	if claims, ok := FromContext(ctx); ok {
		return claims.Username
	}

	return ""
}
