// Package prompt holds the embedded prompt and email templates.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed template/*.txt
var templateFS embed.FS

// System returns the planner system prompt.
func System() string {
	data, err := templateFS.ReadFile("template/system.txt")
	if err != nil {
		// Embedded files cannot go missing at runtime.
		panic(fmt.Sprintf("prompt: missing system template: %v", err))
	}
	return strings.TrimSpace(string(data))
}

// ColdEmail returns the parsed cold-email template.
func ColdEmail() *template.Template {
	data, err := templateFS.ReadFile("template/cold_email.txt")
	if err != nil {
		panic(fmt.Sprintf("prompt: missing cold email template: %v", err))
	}
	return template.Must(template.New("cold_email").Parse(string(data)))
}
