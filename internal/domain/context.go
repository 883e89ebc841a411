// Package domain provides core storefront types, service contracts and
// request context helpers.
//
// Context helpers are the only way request-scoped identity travels between
// middleware and services; nothing is kept in package-level state.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	identityContextKey contextKey = iota
	userContextKey
	requestIDContextKey
)

// Identity is the caller as established by a verified token.
type Identity struct {
	Email string
}

// --- Identity Context Helpers ---

// NewContextWithIdentity returns a new context carrying the caller identity.
func NewContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the caller identity.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityContextKey).(*Identity)
	return identity
}

// CurrentOwnerEmail returns the authenticated caller's email, or "" when
// there is none. Cart handlers use it as the partition key of a cart.
func CurrentOwnerEmail(ctx context.Context) string {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.Email
	}
	return ""
}

// MustIdentity retrieves the identity, panicking if not present.
// Only call it behind middleware that guarantees authentication.
func MustIdentity(ctx context.Context) *Identity {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		panic("identity required in context but not found")
	}
	return identity
}

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the resolved user record attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user record resolved by admin checks.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// IsAuthenticated returns true if there is an identity in context.
func IsAuthenticated(ctx context.Context) bool {
	return IdentityFromContext(ctx) != nil
}
