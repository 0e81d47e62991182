// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Document is an uploaded resume file as received from the user.
type Document struct {
	// Name is the original file name (e.g. "resume.pdf").
	Name string `json:"name" yaml:"name"`

	// MIMEType is the declared content type of the upload.
	MIMEType string `json:"mime_type" yaml:"mime_type"`

	// Data holds the raw file bytes.
	Data []byte `json:"-" yaml:"-"`
}

// Task selects what the model produces from a resume.
type Task string

const (
	TaskReview      Task = "review"
	TaskCoverLetter Task = "cover-letter"
)

// Title returns the human readable name of the task.
func (t Task) Title() string {
	switch t {
	case TaskReview:
		return "Resume Review"
	case TaskCoverLetter:
		return "Cover Letter Generator"
	}
	return string(t)
}

// Valid reports whether t is a known task.
func (t Task) Valid() bool {
	return t == TaskReview || t == TaskCoverLetter
}

// MaxJobTitleLen is the longest accepted job title, in characters.
const MaxJobTitleLen = 100

// Request carries the user's free-text inputs for one pipeline run.
type Request struct {
	Task Task `json:"task" yaml:"task"`

	// JobTitle is the target career or job title. Required.
	JobTitle string `json:"job_title" yaml:"job_title"`

	// JobDescription is the job listing text. Optional.
	JobDescription string `json:"job_description,omitempty" yaml:"job_description,omitempty"`

	// Details holds any extra notes from the applicant. Optional.
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Normalize trims surrounding whitespace from every free-text field.
func (r Request) Normalize() Request {
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.Details = strings.TrimSpace(r.Details)
	return r
}
