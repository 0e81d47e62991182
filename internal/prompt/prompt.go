// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the chat messages sent to the language model for a
// resume review or a cover letter.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/resume-review/pkg/types"
)

// ErrUnknownTask is returned when a request names a task with no template.
var ErrUnknownTask = errors.New("unknown task")

// ErrEmptyResume is returned when Build is called without resume text.
var ErrEmptyResume = errors.New("resume text is empty")

// Stand-ins for a missing job title. Callers outside the web and CLI paths
// may build prompts without validating the request first.
const (
	fallbackIndustry = "general work"
	fallbackJobTitle = "suitable"
)

const (
	jobDescriptionIntro = "The applicant has included a description of the job listing:"
	detailsIntro        = "The applicant also has some additional details that needs consideration:"
)

// Prompt is a system/user message pair for one chat completion.
type Prompt struct {
	System string
	User   string
}

// templateData is the input to the task templates. Optional fields are
// empty when the user left them blank; the templates omit their clause.
type templateData struct {
	JobTitle       string
	Industry       string
	JobDescription string
	Details        string
	Resume         string
}

const reviewSystem = "You are an expert resume reviewer with years of experience in HR and recruitment."

const coverLetterSystem = "You are an expert career writer and recruiter who writes tailored, honest cover letters."

var funcs = template.FuncMap{
	"jobDescriptionIntro": func() string { return jobDescriptionIntro },
	"detailsIntro":        func() string { return detailsIntro },
}

// optionalClauses renders the job description and details clauses. Each
// clause appears only when its field is set.
const optionalClauses = `{{define "optional"}}{{if .JobDescription}}
{{jobDescriptionIntro}}
{{.JobDescription}}
{{end}}{{if .Details}}
{{detailsIntro}}
{{.Details}}
{{end}}{{end}}`

const formattingRules = `{{define "formatting"}}
If possible, colorize important messages. For example, red for critiques and green for positive reinforcement.
The colors you may use are: green, orange, red. Which colors you use is up to your discretion, but it should relate to severity (e.g., the good, bad, and ugly).
When you colorcode, use the format ':color[text]' (ignore the single quotes), where color is the color name and text is the intended text for output.
For example, the line ':green[Hello world!]' will write the string 'Hello world!' in green.
If you write 'Hello :red[world!] Example' instead, you will get a plain 'Hello', a red 'world!', and a plain 'Example'.
The following syntax is invalid: ':orange: text'. It must be in the form ':color[text]'.

Consider using bold text too, as if you were highlighting phrases.
A table to explain things may also make things easier to interpret.

Do not ask follow up questions.
{{end}}`

var reviewTmpl = template.Must(template.New("review").Funcs(funcs).Parse(optionalClauses + formattingRules +
	`Act as a senior hiring manager with over 20 years of experience in the {{.Industry}} industry. You have firsthand expertise in the {{.Industry}} industry and a deep understanding of what it takes to succeed in this position. Your task is to identify the ideal candidate based solely on their resume, ensuring they meet and exceed expectations for {{.Industry}} job applications.
Break down the key qualifications, technical and soft skills, relevant experience, and project work that would make a candidate stand out. Highlight essential industry certifications, domain expertise, and the impact of past roles in shaping their suitability.
Additionally, evaluate leadership qualities, problem-solving abilities, and adaptability to evolving industry trends. If applicable, consider cultural fit, teamwork, and communication skills required for success in the organization.
Finally, provide a structured assessment framework of what an exceptional resume should look like, red flags to avoid, and how to differentiate between a good candidate and a perfect hire. Ensure your response is comprehensive, strategic, and aligned with real-world hiring best practices.
{{template "optional" .}}
Resume Content:
{{.Resume}}

Keep the assessment concise and straight to the point.
There is no need for recaps if there is no constructive criticism or assessment to go along with them.
Though, if you deem it necessary, do include examples to drive a point.
This includes change recommendations, such as changing a certain phrasing to another phrasing.
{{template "formatting" .}}`))

var coverLetterTmpl = template.Must(template.New("cover-letter").Funcs(funcs).Parse(optionalClauses +
	`Write a cover letter for an applicant applying for a {{.JobTitle}} position.
Base every claim strictly on the resume below. Do not invent employers, titles, dates, degrees, or metrics that the resume does not state.
Open with a specific hook tied to the role, connect the two or three strongest matching experiences to the position's needs, and close with a confident call to action.
Keep it under 400 words, in a professional but warm tone, and format it as a ready-to-send letter in markdown.
{{template "optional" .}}
Resume Content:
{{.Resume}}

Use placeholders such as [Hiring Manager] or [Company Name] only where the information above does not provide the value.
After the letter, add a short section titled "Why this works" with two or three bullet points explaining the choices you made.

Do not ask follow up questions.
`))

var templates = map[types.Task]*template.Template{
	types.TaskReview:      reviewTmpl,
	types.TaskCoverLetter: coverLetterTmpl,
}

var systems = map[types.Task]string{
	types.TaskReview:      reviewSystem,
	types.TaskCoverLetter: coverLetterSystem,
}

// Build renders the messages for req over the extracted resume text. Blank
// optional fields drop their clause from the prompt entirely.
func Build(req types.Request, resumeText string) (Prompt, error) {
	tmpl, ok := templates[req.Task]
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownTask, req.Task)
	}
	if strings.TrimSpace(resumeText) == "" {
		return Prompt{}, ErrEmptyResume
	}

	req = req.Normalize()
	data := templateData{
		JobTitle:       req.JobTitle,
		Industry:       req.JobTitle,
		JobDescription: req.JobDescription,
		Details:        req.Details,
		Resume:         strings.TrimSpace(resumeText),
	}
	if data.Industry == "" {
		data.Industry = fallbackIndustry
	}
	if data.JobTitle == "" {
		data.JobTitle = fallbackJobTitle
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Prompt{}, fmt.Errorf("rendering %s prompt: %w", req.Task, err)
	}

	return Prompt{
		System: systems[req.Task],
		User:   strings.TrimSpace(buf.String()),
	}, nil
}
