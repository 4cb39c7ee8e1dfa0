package http

import (
	"github.com/mrlokans/readreviews/internal/auth"
	"github.com/mrlokans/readreviews/internal/database"
	"github.com/mrlokans/readreviews/internal/ratings"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Books     BookStore
	Favorites FavoritesStore
	Users     UserLookup

	// Authentication
	AuthController *auth.AuthController
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Live ratings (nil when the ratings client is disabled)
	Ratings        *ratings.Enricher
	RatingsBaseURL string

	// UI paths; empty means the embedded assets
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string

	// Task queue client (optional); leave nil when tasks are disabled
	TaskClient TaskEnqueuer

	// Ratings sync scheduler (optional), reported on /health
	RatingsSync SyncScheduler
}
