package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/database"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyEmail    = "email"
	SessionKeyLoggedIn = "logged_in"
	SessionKeyRemember = "remember"
)

const sqliteSessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

const postgresSessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BYTEA NOT NULL,
	expiry TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry);`

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
	rememberMe bool
}

// NewSessionManager creates a configured session manager backed by the
// sessions table of the application database.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, driver database.Driver, cfg config.Auth) (*SessionManager, error) {
	sm := scs.New()

	switch driver {
	case database.DriverPostgres:
		if _, err := sqlDB.Exec(postgresSessionsSchema); err != nil {
			return nil, err
		}
		sm.Store = postgresstore.New(sqlDB)
	default:
		if _, err := sqlDB.Exec(sqliteSessionsSchema); err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	}

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2 // Half of lifetime for inactivity

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"
	// Browser-session cookie unless the user asks to be remembered
	sm.Cookie.Persist = false

	return &SessionManager{SessionManager: sm, rememberMe: cfg.RememberMeEnabled}, nil
}

// CreateSession stores the identity after successful login or registration.
func (sm *SessionManager) CreateSession(r *http.Request, identity *Identity) error {
	ctx := r.Context()

	// Renew token to prevent session fixation
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}

	// Store user ID as int to match GetInt() retrieval
	sm.Put(ctx, SessionKeyUserID, int(identity.UserID))
	sm.Put(ctx, SessionKeyUsername, identity.Username)
	sm.Put(ctx, SessionKeyEmail, identity.Email)
	sm.Put(ctx, SessionKeyLoggedIn, true)

	remember := identity.Remember && sm.rememberMe
	sm.Put(ctx, SessionKeyRemember, remember)
	sm.RememberMe(ctx, remember)

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// Identity reads the session's identity, if any.
func (sm *SessionManager) Identity(r *http.Request) (Identity, bool) {
	userID := sm.GetUserID(r)
	if userID == 0 {
		return Identity{}, false
	}

	ctx := r.Context()
	return Identity{
		UserID:   userID,
		Username: sm.GetString(ctx, SessionKeyUsername),
		Email:    sm.GetString(ctx, SessionKeyEmail),
		Remember: sm.GetBool(ctx, SessionKeyRemember),
	}, true
}
