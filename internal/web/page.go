// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/pdiddy/resume-review/internal/extract"
	"github.com/pdiddy/resume-review/internal/render"
	"github.com/pdiddy/resume-review/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Form holds the values the user typed, echoed back into the inputs.
type Form struct {
	JobTitle       string
	JobDescription string
	Details        string
	FileName       string
}

// Page is the view model for one render of a tool page.
type Page struct {
	Task types.Task
	Form Form

	// Processing disables every input while a request is in flight.
	Processing bool

	// Result is the rendered model answer; Markdown is its source.
	Result   template.HTML
	Markdown string
	Model    string

	Warning string
	Error   string

	RequestID string
}

// toolPage describes the static parts of a task's page.
type toolPage struct {
	Task    types.Task
	Path    string
	API     string
	Tagline string
	Button  string
	Spinner string
	Heading string
}

var tools = []toolPage{
	{
		Task:    types.TaskReview,
		Path:    "/",
		API:     "/api/review",
		Tagline: "#### See your resume through a *:rainbow[critical eye]*",
		Button:  "Analyze Resume",
		Spinner: "In analysis...",
		Heading: "Analysis Results",
	},
	{
		Task:    types.TaskCoverLetter,
		Path:    "/cover",
		API:     "/api/cover",
		Tagline: "#### Turn your resume into a :green[tailored cover letter]",
		Button:  "Generate Cover Letter",
		Spinner: "Writing...",
		Heading: "Your Cover Letter",
	},
}

func toolFor(task types.Task) toolPage {
	for _, t := range tools {
		if t.Task == task {
			return t
		}
	}
	return tools[0]
}

// view is what the template sees: the page state plus its static parts.
type view struct {
	Page
	Tool           toolPage
	Tools          []toolPage
	Tagline        template.HTML
	Accept         string
	MaxJobTitleLen int
}

var pageTmpl = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"title": func(t types.Task) string { return t.Title() },
}).ParseFS(templateFS, "templates/page.html"))

// taglines caches the rendered tagline per task.
var taglines = func() map[types.Task]template.HTML {
	out := make(map[types.Task]template.HTML, len(tools))
	for _, t := range tools {
		html, err := render.Markdown(t.Tagline)
		if err != nil {
			panic(fmt.Sprintf("rendering tagline for %s: %v", t.Task, err))
		}
		out[t.Task] = html
	}
	return out
}()

// RenderPage writes the HTML for p.
func RenderPage(w io.Writer, p Page) error {
	v := view{
		Page:           p,
		Tool:           toolFor(p.Task),
		Tools:          tools,
		Tagline:        taglines[p.Task],
		Accept:         strings.Join(extract.SupportedExtensions, ","),
		MaxJobTitleLen: types.MaxJobTitleLen,
	}
	if err := pageTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("rendering %s page: %w", p.Task, err)
	}
	return nil
}
