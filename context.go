package goThrottle

import "context"

type principalContextKey struct{}
type clientIPContextKey struct{}

// WithPrincipal attaches an authenticated principal to ctx. The middleware
// package reads it when resolving the client identity; requests without a
// principal fall back to address identities.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by [WithPrincipal],
// or nil when the request is anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}

	p, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok {
		return nil
	}
	return &p
}

// WithClientIP attaches a pre-resolved client address to ctx, useful when
// an outer proxy layer has already done trusted address extraction.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// ClientIPFromContext returns the address attached by [WithClientIP].
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
