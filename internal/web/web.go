package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/wallet"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// FuncMap holds the helpers the board template uses.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"shortAddress": wallet.ShortAddress,
		"statusLabel": func(status models.TaskStatus) string {
			return status.Label()
		},
		"priorityClass": func(priority models.TaskPriority) string {
			return "priority-" + strings.ToLower(string(priority))
		},
	}
}
