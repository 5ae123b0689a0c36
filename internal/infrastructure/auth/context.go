package auth

import "context"

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying the verified token claims
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims, if any
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// CanActFor reports whether the caller may act on a resource owned by ownerID
func (c *Claims) CanActFor(ownerID string) bool {
	return c != nil && (c.IsAdmin || c.Subject == ownerID)
}
