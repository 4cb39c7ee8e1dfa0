package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	tmpl, err := LoadTemplates("")
	require.NoError(t, err)

	for _, name := range []string{"index", "reviews", "register", "login", "top_books", "profile", "error"} {
		assert.NotNil(t, tmpl.Lookup(name), "template %q should be defined", name)
	}
}

func TestStaticFS_Embedded(t *testing.T) {
	fsys, err := StaticFS("")
	require.NoError(t, err)

	f, err := fsys.Open("style.css")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "table.books")
}

type pageData struct {
	LoggedIn  bool
	Username  string
	CSRFToken string
}

func TestRenderError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tmpl, err := LoadTemplates("")
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.GET("/fail", func(c *gin.Context) {
		c.Set(TemplateDataKey, pageData{LoggedIn: true, Username: "alice", CSRFToken: "tok"})
		RenderError(c, http.StatusNotFound, "No Matching Books Found. Please try again!")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No Matching Books Found. Please try again!")
	assert.Contains(t, w.Body.String(), "/profile/alice")
	assert.Contains(t, w.Body.String(), `value="tok"`)
}
