package user

import (
	"context"
)

type contextKeyType struct{}

// userContextKey is the key used for user.FromContext and
// user.NewContext.
var userContextKey = contextKeyType(struct{}{})

// NewContext returns a new context.Context that carries the provided
// user identity.
func NewContext(ctx context.Context, usr User) context.Context {
	return context.WithValue(ctx, userContextKey, usr)
}

// FromContext returns the user identity from the context if present, and
// empty otherwise.
func FromContext(ctx context.Context) User {
	if ctx == nil {
		return User{}
	}
	if u, ok := ctx.Value(userContextKey).(User); ok {
		return u
	}
	return User{}
}

// ContextProvider resolves the identity from the request context, falling
// back to a configured default when the context carries none. This is the
// Provider used behind the HTTP surface, where identity headers are parsed
// by middleware and stashed in the context.
type ContextProvider struct {
	fallback User
}

func NewContextProvider(fallback User) *ContextProvider {
	return &ContextProvider{fallback: fallback}
}

func (p *ContextProvider) CurrentUser(ctx context.Context) (User, error) {
	if usr := FromContext(ctx); usr.Email != "" {
		return usr, nil
	}
	if p.fallback.Email != "" {
		return p.fallback, nil
	}
	return User{}, ErrNoUserInformation
}
