package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/apperrors"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// Middleware gates routes on an authenticated session.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new session gate. The service is optional; when
// set, sessions whose user no longer exists are discarded.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// RequireSession returns a Gin middleware that lets a request through only
// when its session holds a user ID. The identity is attached to the gin
// context and the request context; anything else is redirected to the login
// page (or answered with 401 for API clients).
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		// LoadIdentity may already have validated this request
		if IsAuthenticated(c) {
			c.Next()
			return
		}

		identity, ok := m.sessionIdentity(c)
		if !ok {
			m.reject(c)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// LoadIdentity attaches the session identity when present but never rejects.
// Public pages use it to render the logged-in state.
func (m *Middleware) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := m.sessionIdentity(c); ok {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

func (m *Middleware) sessionIdentity(c *gin.Context) (Identity, bool) {
	if m.sessionManager == nil {
		return Identity{}, false
	}

	identity, ok := m.sessionManager.Identity(c.Request)
	if !ok {
		return Identity{}, false
	}

	if m.service != nil {
		if _, err := m.service.GetUserByID(identity.UserID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				_ = m.sessionManager.DestroySession(c.Request)
			} else {
				log.Printf("Failed to load session user %d: %v", identity.UserID, err)
			}
			return Identity{}, false
		}
	}

	return identity, true
}

// reject short-circuits an unauthenticated request.
func (m *Middleware) reject(c *gin.Context) {
	if IsAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
		})
		return
	}

	target := LoginPath
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// IsAPIRequest determines if this is an API request vs web browser request.
func IsAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// IsAuthenticated returns true if the request carries an identity.
func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentIdentity(c)
	return ok
}
