package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter(reached *bool, token *string) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/form", func(c *gin.Context) {
		if token != nil {
			*token = GetCSRFToken(c)
		}
		c.Status(http.StatusOK)
	})
	router.POST("/submit", func(c *gin.Context) {
		if reached != nil {
			*reached = true
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	router := csrfRouter(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET request, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	reached := false
	router := csrfRouter(&reached, nil)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without CSRF token, got %d", rr.Code)
	}
	if reached {
		t.Error("handler must not run when the CSRF check fails")
	}
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	reached := false
	var token string
	router := csrfRouter(&reached, &token)

	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/form", nil))
	if token == "" {
		t.Fatal("Expected CSRF token to be set in context")
	}

	form := url.Values{CSRFFieldName: {token}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range getRR.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for POST with CSRF token, got %d", rr.Code)
	}
	if !reached {
		t.Error("handler should run when the CSRF token is valid")
	}
}

func TestCSRFMiddleware_JSONFailure(t *testing.T) {
	router := csrfRouter(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "CSRF token invalid") {
		t.Errorf("Expected JSON error body, got %s", rr.Body.String())
	}
}

func TestCSRFMiddleware_RedirectsBackToLocalReferer(t *testing.T) {
	router := csrfRouter(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Referer", "http://example.com/login")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "http://example.com/login?error=") {
		t.Errorf("Expected redirect back to the form, got %s", loc)
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if token := GetCSRFToken(c); token != "" {
		t.Errorf("Expected empty token, got %s", token)
	}
}
