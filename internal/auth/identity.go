package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Remember bool   `json:"-"`
}

type identityKey struct{}

// ContextKeyIdentity is the gin context key holding the request's Identity.
const ContextKeyIdentity = "auth_identity"

// WithIdentity returns a copy of ctx carrying the identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok && identity.UserID != 0
}

// setIdentity stores the identity on both the gin context and the request
// context so handlers and the code they call see the same caller.
func setIdentity(c *gin.Context, identity Identity) {
	c.Set(ContextKeyIdentity, identity)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
}

// CurrentIdentity retrieves the authenticated identity from the gin context.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(Identity); ok && identity.UserID != 0 {
			return identity, true
		}
	}
	return IdentityFromContext(c.Request.Context())
}

// GetUserID returns the authenticated user's ID, or 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	identity, _ := CurrentIdentity(c)
	return identity.UserID
}
