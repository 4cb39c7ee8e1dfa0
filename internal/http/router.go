package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/auth"
	"github.com/mrlokans/readreviews/internal/web"
)

// hstsMaxAge is one year, in seconds.
const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
// Every page except registration, login and the health probes sits behind
// the session gate.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.SessionManager == nil || cfg.AuthMiddleware == nil || cfg.AuthController == nil {
		return nil, errors.New("router requires a session manager, auth middleware and auth controller")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(recoveryHandler))

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware(cfg.RatingsBaseURL))
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.LoadIdentity())

	// Inject auth data for templates
	router.Use(AuthContextMiddleware())

	tmpl, err := web.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	static, err := web.StaticFS(cfg.StaticPath)
	if err != nil {
		return nil, err
	}
	router.StaticFS("/static", static)

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	if cfg.RatingsSync != nil {
		health.WithRatingsSync(cfg.RatingsSync)
	}
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	protected := router.Group("/", cfg.AuthMiddleware.RequireSession())
	cfg.AuthController.RegisterRoutes(router, protected)

	catalog := NewCatalogController(cfg.Books, cfg.Favorites, cfg.Users, cfg.Ratings)
	favorites := NewFavoritesController(cfg.Favorites)

	// UI routes
	protected.GET("/", catalog.HomePage)
	protected.GET("/reviews/:isbn", catalog.BookPage)
	protected.POST("/reviews/:isbn", catalog.Search)
	protected.GET("/top_books/", catalog.TopBooksPage)
	protected.GET("/profile/:username", catalog.ProfilePage)
	protected.POST("/add_favorite/:isbn", favorites.AddFavorite)

	// Books API endpoints
	protected.GET("/api/books/search", catalog.SearchBooks)
	protected.GET("/api/books/:isbn", catalog.GetBook)

	// Favorites API endpoints
	protected.GET("/api/favorites", favorites.ListFavorites)
	protected.POST("/api/favorites/:isbn", favorites.AddFavoriteJSON)

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		protected.GET("/api/tasks/types", tasksController.ListTaskTypes)
		protected.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		protected.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	return router, nil
}
