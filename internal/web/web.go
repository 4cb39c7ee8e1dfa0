// Package web holds the HTML templates and static assets, embedded into the
// binary, plus the helpers handlers use to render them.
//
// Templates are named by their {{define}} blocks: index, reviews, register,
// login, top_books, profile and error. Setting TEMPLATES_PATH or STATIC_PATH
// serves files from disk instead, which is handy while editing markup.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedAssets embed.FS

// TemplateDataKey is the gin context key for page-wide template data
// (login state, CSRF token). Render exposes it to templates as .Auth.
const TemplateDataKey = "template_data"

// InternalErrorMessage is shown for any failure that is not the user's.
const InternalErrorMessage = "Internal Server Error."

// FuncMap returns the functions available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"rating": func(r float64) string {
			return fmt.Sprintf("%.2f", r)
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// LoadTemplates parses the page templates from dir, or from the embedded copy
// when dir is empty.
func LoadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(FuncMap())
	if dir == "" {
		return tmpl.ParseFS(embeddedAssets, "templates/*.html")
	}
	return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
}

// StaticFS returns the static asset filesystem rooted at dir, or the
// embedded copy when dir is empty.
func StaticFS(dir string) (http.FileSystem, error) {
	if dir != "" {
		return http.Dir(dir), nil
	}
	sub, err := fs.Sub(embeddedAssets, "static")
	if err != nil {
		return nil, fmt.Errorf("access static fs: %w", err)
	}
	return http.FS(sub), nil
}

// Render executes the named template with data and the page-wide values
// stored under TemplateDataKey.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if pageData, exists := c.Get(TemplateDataKey); exists {
		data["Auth"] = pageData
	}
	c.HTML(status, name, data)
}

// RenderError shows message on the error page.
func RenderError(c *gin.Context, status int, message string) {
	Render(c, status, "error", gin.H{
		"Title":   "Error",
		"Message": message,
	})
}
