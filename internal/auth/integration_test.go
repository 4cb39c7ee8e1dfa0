package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/web"
)

// browser replays cookies between requests the way a real client would.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	b.router.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func setupTestRouter(t *testing.T, cfg config.Auth) (*browser, *AuthController) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := setupService(t, cfg)
	sm := setupSessionManager(t, cfg)
	middleware := NewMiddleware(svc, sm)
	controller := NewAuthController(svc, sm, cfg)
	t.Cleanup(controller.Stop)

	templates, err := web.LoadTemplates("")
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.Use(sm.SessionLoadSave())
	router.Use(middleware.LoadIdentity())

	protected := router.Group("/", middleware.RequireSession())
	controller.RegisterRoutes(router, protected)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "home for %d", GetUserID(c))
	})
	protected.GET("/top_books/", func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.String(http.StatusOK, "top books for %s", identity.Username)
	})

	return &browser{t: t, router: router, cookies: map[string]*http.Cookie{}}, controller
}

func registerForm(email, username, password, confirm string) url.Values {
	return url.Values{
		"user_email":        {email},
		"user_name":         {username},
		"user_pass":         {password},
		"user_confirm_pass": {confirm},
	}
}

func TestIntegration_RegisterLoginLogoutFlow(t *testing.T) {
	b, _ := setupTestRouter(t, testAuthConfig())

	// Step 1: protected page redirects an anonymous visitor
	rr := b.get("/top_books/")
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected redirect before login, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login?next=%2Ftop_books%2F" {
		t.Errorf("Unexpected redirect target: %s", loc)
	}

	// Step 2: registration logs the user in and lands on the homepage
	rr = b.post("/register", registerForm("reader@example.com", "reader", "password123", "password123"))
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected redirect after register, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Expected redirect to '/', got %s", loc)
	}

	rr = b.get("/top_books/")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected access after register, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "reader") {
		t.Errorf("Expected username in body, got %s", rr.Body.String())
	}

	// Step 3: logout ends the session
	rr = b.post("/logout", nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected redirect after logout, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Expected redirect to login, got %s", loc)
	}

	rr = b.get("/top_books/")
	if rr.Code != http.StatusFound {
		t.Errorf("Expected redirect after logout, got %d", rr.Code)
	}

	// Step 4: log back in by email and follow next
	rr = b.post("/login", url.Values{
		"login_user": {"reader@example.com"},
		"login_pass": {"password123"},
		"next":       {"/top_books/"},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected redirect after login, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/top_books/" {
		t.Errorf("Expected redirect to next, got %s", loc)
	}

	rr = b.get("/top_books/")
	if rr.Code != http.StatusOK {
		t.Errorf("Expected access after login, got %d", rr.Code)
	}
}

func TestIntegration_RegisterErrors(t *testing.T) {
	b, _ := setupTestRouter(t, testAuthConfig())

	rr := b.post("/register", registerForm("taken@example.com", "", "password123", "password123"))
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected first registration to succeed, got %d", rr.Code)
	}
	b.cookies = map[string]*http.Cookie{}

	tests := []struct {
		name    string
		form    url.Values
		status  int
		message string
	}{
		{
			name:    "missing fields",
			form:    registerForm("", "", "password123", "password123"),
			status:  http.StatusBadRequest,
			message: msgMissingInformation,
		},
		{
			name:    "email in use",
			form:    registerForm("taken@example.com", "", "password123", "password123"),
			status:  http.StatusConflict,
			message: msgEmailInUse,
		},
		{
			name:    "passwords differ",
			form:    registerForm("new@example.com", "", "password123", "password124"),
			status:  http.StatusBadRequest,
			message: msgPasswordsMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := b.post("/register", tt.form)
			if rr.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.message) {
				t.Errorf("Expected message %q in body", tt.message)
			}
		})
	}
}

func TestIntegration_LoginFailuresLookTheSame(t *testing.T) {
	b, _ := setupTestRouter(t, testAuthConfig())

	b.post("/register", registerForm("reader@example.com", "reader", "password123", "password123"))
	b.cookies = map[string]*http.Cookie{}

	for _, identifier := range []string{"reader", "nobody"} {
		rr := b.post("/login", url.Values{
			"login_user": {identifier},
			"login_pass": {"wrong-password"},
		})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", identifier, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), msgIncorrectLogin) {
			t.Errorf("%s: expected %q in body", identifier, msgIncorrectLogin)
		}
	}
}

func TestIntegration_LoginRateLimited(t *testing.T) {
	cfg := testAuthConfig()
	cfg.MaxLoginAttempts = 2
	cfg.RateLimitWindow = time.Minute
	cfg.LockoutDuration = time.Minute
	b, _ := setupTestRouter(t, cfg)

	form := url.Values{"login_user": {"ghost"}, "login_pass": {"password123"}}
	b.post("/login", form)
	b.post("/login", form)

	rr := b.post("/login", form)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 once locked out, got %d", rr.Code)
	}
}

func TestIntegration_LoginRejectsOpenRedirect(t *testing.T) {
	b, _ := setupTestRouter(t, testAuthConfig())
	b.post("/register", registerForm("reader@example.com", "reader", "password123", "password123"))
	b.cookies = map[string]*http.Cookie{}

	rr := b.post("/login", url.Values{
		"login_user": {"reader"},
		"login_pass": {"password123"},
		"next":       {"//evil.example.com"},
	})
	if rr.Code != http.StatusFound {
		t.Fatalf("Expected redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Expected redirect to '/', got %s", loc)
	}
}

func TestIntegration_LoginPageWhenAuthenticated(t *testing.T) {
	b, _ := setupTestRouter(t, testAuthConfig())

	rr := b.get("/login")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected login form, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `name="keepon"`) {
		t.Error("Expected remember-me checkbox on login form")
	}

	b.post("/register", registerForm("reader@example.com", "reader", "password123", "password123"))
	rr = b.get("/login")
	if rr.Code != http.StatusFound {
		t.Errorf("Expected redirect for logged-in user, got %d", rr.Code)
	}
}

func TestIntegration_RememberMeCookie(t *testing.T) {
	b, _ := setupTestRouter(t, testAuthConfig())
	b.post("/register", registerForm("reader@example.com", "reader", "password123", "password123"))
	b.cookies = map[string]*http.Cookie{}

	b.post("/login", url.Values{
		"login_user": {"reader"},
		"login_pass": {"password123"},
		"keepon":     {"on"},
	})
	cookie, ok := b.cookies["session"]
	if !ok {
		t.Fatal("Expected session cookie after login")
	}
	if cookie.MaxAge <= 0 {
		t.Errorf("Expected persistent cookie with keep me logged in, got MaxAge %d", cookie.MaxAge)
	}
}
