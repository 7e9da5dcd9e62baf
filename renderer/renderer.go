// Package renderer formats pipeline results as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderSummary renders the summary report: per asset quantities and monthly
// Income totals.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_title":  "summary_title.md",
		"summary_assets": "summary_assets.md",
		"summary_income": "summary_income.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderCheck renders the check report: the counters of each stage and the
// per asset quantities.
func RenderCheck(s *Summary) string {
	partials := map[string]string{
		"summary_title":  "summary_title.md",
		"summary_assets": "summary_assets.md",
		"check_counters": "check_counters.md",
	}
	return renderTemplate("check", "check.md", partials, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
