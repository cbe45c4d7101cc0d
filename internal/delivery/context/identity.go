package context

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Identity is the caller proven by a valid session token. It lives for one request only.
type Identity struct {
	UserID int64
	Email  string
}

// WithIdentity returns a new context carrying the authenticated caller.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// GetIdentity extracts the authenticated caller from context.Context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(KeyIdentity).(Identity)

	return identity, ok && identity.UserID > 0
}

// SetIdentity stores the caller on both echo.Context and the request context so that
// handlers and the service layer see the same value.
func SetIdentity(c echo.Context, identity Identity) {
	c.Set(string(KeyIdentity), identity)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
}

// IdentityFrom reads the caller set by SetIdentity.
func IdentityFrom(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(string(KeyIdentity)).(Identity)
	if ok && identity.UserID > 0 {
		return identity, true
	}

	return GetIdentity(c.Request().Context())
}
