package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/auth"
	"github.com/mrlokans/readreviews/internal/web"
)

// AuthTemplateData holds authentication info for templates.
type AuthTemplateData struct {
	LoggedIn  bool   // Whether user is logged in
	Username  string // Current user's username (empty if not logged in)
	CSRFToken string // CSRF token for forms
}

// AuthContextMiddleware injects authentication data into Gin context for templates.
// Templates can access auth data via .Auth in the template data.
func AuthContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authData := AuthTemplateData{
			CSRFToken: auth.GetCSRFToken(c),
		}

		if identity, ok := auth.CurrentIdentity(c); ok {
			authData.LoggedIn = true
			authData.Username = identity.Username
		}

		c.Set(web.TemplateDataKey, authData)
		c.Next()
	}
}
