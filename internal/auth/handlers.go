package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/web"
)

// User-facing messages for the register and login forms.
const (
	msgMissingInformation = "Missing Information."
	msgEmailInUse         = "Email is already in use."
	msgPasswordsMismatch  = "Passwords did not match."
	msgIncorrectLogin     = "Incorrect Information"
	msgTooManyAttempts    = "Too many login attempts. Please try again later."
)

// isLocalPath validates that a redirect path is local to prevent open redirect attacks.
func isLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}

	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") || strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthController handles the register, login and logout endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	rateLimiter    *RateLimiter
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes mounts the public form routes and the gated logout route.
func (ac *AuthController) RegisterRoutes(public, protected gin.IRoutes) {
	public.GET("/register", ac.RegisterPage)
	public.POST("/register", ac.Register)
	public.GET("/login", ac.LoginPage)
	public.POST("/login", ac.Login)
	protected.POST("/logout", ac.Logout)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// RegisterPage renders the registration form.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	web.Render(c, http.StatusOK, "register", gin.H{
		"Title":    "Register",
		"Error":    c.Query("error"),
		"Email":    "",
		"Username": "",
	})
}

// Register handles the registration form. On success the new user is
// logged in and sent to the homepage.
func (ac *AuthController) Register(c *gin.Context) {
	identity, err := ac.service.Register(RegisterInput{
		Email:           c.PostForm("user_email"),
		Username:        c.PostForm("user_name"),
		Password:        c.PostForm("user_pass"),
		ConfirmPassword: c.PostForm("user_confirm_pass"),
	})
	if err != nil {
		ac.renderFailure(c, err, registerMessage(err))
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, identity); err != nil {
		ac.renderFailure(c, err, "")
		return
	}

	log.Printf("Registered user %q (id=%d)", identity.Username, identity.UserID)
	c.Redirect(http.StatusFound, "/")
}

func registerMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return msgMissingInformation
	case errors.Is(err, ErrUserExists):
		return msgEmailInUse
	case errors.Is(err, ErrPasswordMismatch):
		return msgPasswordsMismatch
	default:
		return apperrors.Detail(err)
	}
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	web.Render(c, http.StatusOK, "login", gin.H{
		"Title":      "Login",
		"Next":       sanitizeRedirectPath(c.Query("next")),
		"Identifier": "",
		"Error":      c.Query("error"),
		"RememberMe": ac.config.RememberMeEnabled,
	})
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	identifier := strings.TrimSpace(c.PostForm("login_user"))
	password := c.PostForm("login_pass")
	remember := c.PostForm("keepon") != ""
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	// Check rate limiting before attempting authentication
	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, identifier); !allowed {
		c.Header("Retry-After", retryAfter.String())
		web.RenderError(c, http.StatusTooManyRequests, msgTooManyAttempts)
		return
	}

	identity, err := ac.service.Authenticate(identifier, password, remember)
	if err != nil {
		if !apperrors.IsUserError(err) {
			ac.renderFailure(c, err, "")
			return
		}
		ac.rateLimiter.RecordFailure(clientIP, identifier)
		// Unknown user and wrong password look the same to the client
		web.RenderError(c, http.StatusUnauthorized, msgIncorrectLogin)
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, identifier)

	if err := ac.sessionManager.CreateSession(c.Request, identity); err != nil {
		ac.renderFailure(c, err, "")
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and redirects to login.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	c.Redirect(http.StatusFound, LoginPath)
}

// renderFailure shows a user error with message, or logs anything else and
// shows the generic internal error page.
func (ac *AuthController) renderFailure(c *gin.Context, err error, message string) {
	if apperrors.IsUserError(err) {
		web.RenderError(c, apperrors.StatusCode(err), message)
		return
	}
	log.Printf("Internal error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
	web.RenderError(c, http.StatusInternalServerError, web.InternalErrorMessage)
}
