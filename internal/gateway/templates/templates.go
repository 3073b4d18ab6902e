// Package templates holds the gateway's HTML views, embedded so the
// binary ships self-contained.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

func Load() *template.Template {
	return template.Must(template.ParseFS(files, "*.tmpl"))
}
