package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/auth"
	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/database"
	"github.com/mrlokans/readreviews/internal/database/books"
	"github.com/mrlokans/readreviews/internal/database/favorites"
	"github.com/mrlokans/readreviews/internal/database/users"
	http_controllers "github.com/mrlokans/readreviews/internal/http"
	"github.com/mrlokans/readreviews/internal/ratings"
	"github.com/mrlokans/readreviews/internal/scheduler"
	"github.com/mrlokans/readreviews/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired application and the resources to release on exit.
type App struct {
	Router    *gin.Engine
	DB        *database.Database
	Tasks     *tasks.Client
	Scheduler *scheduler.RatingsSyncScheduler

	authController *auth.AuthController
	cancelWorkers  context.CancelFunc
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Stop background work after the last request has been answered
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// csrfSecret decodes AUTH_SESSION_SECRET, or generates a secret for this
// process when it is unset.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured), nil
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("generate CSRF secret: %w", err)
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(generated)
}

// NewApp validates cfg and wires every component. Background workers are
// started; call Shutdown to stop them and release resources.
func NewApp(cfg *config.Config, version string) (app *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app = &App{DB: db}
	defer func() {
		if err != nil {
			app.Shutdown(context.Background())
			app = nil
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	favoriteRepo := favorites.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)

	// Authentication
	authService := auth.NewService(userRepo, cfg.Auth)
	sqlDB, err := db.DB.DB()
	if err != nil {
		return app, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, db.Driver, cfg.Auth)
	if err != nil {
		return app, fmt.Errorf("failed to initialize session manager: %w", err)
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager)
	app.authController = auth.NewAuthController(authService, sessionManager, cfg.Auth)

	secret, err := csrfSecret(cfg.Auth.SessionSecret)
	if err != nil {
		return app, err
	}

	// Live ratings
	var enricher *ratings.Enricher
	if cfg.Ratings.Enabled {
		client := ratings.NewGoodreadsClient(cfg.Ratings.BaseURL, cfg.Ratings.APIKey, cfg.Ratings.Timeout)
		enricher = ratings.NewEnricher(client, bookRepo, cfg.Ratings.Concurrency)
		log.Printf("[RATINGS] Live ratings enabled (%s)", client.BaseURL())
	} else {
		log.Printf("[RATINGS] Live ratings disabled; showing stored ratings")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Books:          bookRepo,
		Favorites:      favoriteRepo,
		Users:          userRepo,
		AuthController: app.authController,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     secret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Ratings:        enricher,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}
	if enricher != nil {
		routerCfg.RatingsBaseURL = cfg.Ratings.BaseURL
	}

	// Task queue; refresh queues need the ratings client
	if cfg.Tasks.Enabled && enricher != nil {
		taskCfg := tasks.FromSettings(cfg.Tasks.Workers, cfg.Tasks.ReleaseAfter, cfg.Tasks.CleanupInterval)
		app.Tasks, err = tasks.NewClient(cfg.Database.URL, taskCfg)
		if err != nil {
			return app, fmt.Errorf("failed to initialize task queue: %w", err)
		}

		app.Tasks.Register(
			tasks.NewRefreshBookRatingsQueue(enricher),
			tasks.NewRefreshAllRatingsQueue(bookRepo, app.Tasks),
		)

		var workerCtx context.Context
		workerCtx, app.cancelWorkers = context.WithCancel(context.Background())
		go app.Tasks.Start(workerCtx)

		routerCfg.TaskClient = app.Tasks

		if cfg.RatingsSync.Enabled {
			app.Scheduler = scheduler.NewRatingsSyncScheduler(cfg.RatingsSync.Schedule, app.Tasks)
			if err := app.Scheduler.Start(workerCtx); err != nil {
				return app, fmt.Errorf("failed to start ratings sync scheduler: %w", err)
			}
			routerCfg.RatingsSync = app.Scheduler
		}
	}

	app.Router, err = http_controllers.NewRouter(routerCfg)
	if err != nil {
		return app, err
	}

	return app, nil
}

// Shutdown stops background work and closes the databases.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
		if a.cancelWorkers != nil {
			a.cancelWorkers()
		}
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.authController != nil {
		a.authController.Stop()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Read Reviews v%s", version)

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	Serve(app.Router, cfg, app.Shutdown)
}
