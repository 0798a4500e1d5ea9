package auth

import "context"

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID   int64
	Username string
}

// IsZero reports whether no identity was resolved.
func (i Identity) IsZero() bool {
	return i.UserID == 0
}

type identityKey struct{}

// WithIdentity returns a child context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && !id.IsZero()
}
