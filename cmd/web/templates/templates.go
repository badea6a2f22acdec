// Package templates holds the embedded HTML pages rendered by the gin router.
package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed html/*.html
var templatesFS embed.FS

// Load parses every embedded page. Templates are named after their file,
// e.g. "blogs.html"; layout.html only defines the shared "header" and "footer".
func Load() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "html/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// MustLoad is Load for program start-up.
func MustLoad() *template.Template {
	tmpl, err := Load()
	if err != nil {
		panic(err)
	}
	return tmpl
}
