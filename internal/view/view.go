// Package view holds the server-rendered pages of the catalog.
package view

import (
	"embed"
	"html/template"
	"strconv"
)

const (
	IndexPage  = "index.html"
	CreatePage = "create.html"
	EditPage   = "edit.html"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"text": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"year": func(y *int) string {
		if y == nil {
			return ""
		}
		return strconv.Itoa(*y)
	},
}

// Templates parses every embedded page. It panics on a malformed template,
// which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}
