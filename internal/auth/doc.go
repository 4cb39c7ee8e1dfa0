// Package auth provides account registration, login and the session gate.
//
// Users register with an email and password (the username defaults to the
// email) and log in with either their username or email. A successful login
// stores the user's identity in a server-side session (scs, backed by the
// application database) referenced by an HttpOnly cookie.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<base64-32-bytes>  # CSRF key; auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h              # Session duration
//	AUTH_BCRYPT_COST=12                    # bcrypt cost factor
//	AUTH_MIN_PASSWORD_LENGTH=8             # Minimum password length
//	AUTH_SECURE_COOKIES=true               # HTTPS-only cookies
//	AUTH_REMEMBER_ME_ENABLED=true          # Persistent cookie on "keep me logged in"
//
// # Usage
//
//	service := auth.NewService(users.NewRepository(db), cfg.Auth)
//	sessions, _ := auth.NewSessionManager(sqlDB, driver, cfg.Auth)
//	gate := auth.NewMiddleware(service, sessions)
//
//	router.Use(sessions.SessionLoadSave(), gate.LoadIdentity())
//	protected := router.Group("/", gate.RequireSession())
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c)  // 0 when anonymous
package auth
