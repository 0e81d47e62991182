// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review runs the resume pipeline: extract the text of an upload,
// build the task prompt, and ask the model backend for markdown.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/resume-review/internal/extract"
	"github.com/pdiddy/resume-review/internal/llm"
	"github.com/pdiddy/resume-review/internal/prompt"
	"github.com/pdiddy/resume-review/pkg/types"
)

var (
	// ErrMissingFile is returned when no resume was uploaded.
	ErrMissingFile = errors.New("no resume file uploaded")

	// ErrMissingJobTitle is returned when the job title is blank.
	ErrMissingJobTitle = errors.New("job title is required")

	// ErrJobTitleTooLong is returned when the job title exceeds MaxJobTitleLen.
	ErrJobTitleTooLong = errors.New("job title is too long")

	// ErrEmptyFile is returned when the upload produced no text.
	ErrEmptyFile = errors.New("the file is empty")

	// ErrCompletion wraps any failure of the model backend.
	ErrCompletion = errors.New("completion failed")
)

// Result is the outcome of one pipeline run.
type Result struct {
	// Markdown is the generated text as returned by the model.
	Markdown string `json:"markdown" yaml:"markdown"`

	// Model is the model identifier that produced Markdown.
	Model string `json:"model" yaml:"model"`

	// Elapsed is the wall time of the completion call.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Reviewer runs requests against a model backend. It holds no per-request
// state and may be shared.
type Reviewer struct {
	backend llm.Backend
	now     func() time.Time
}

// New returns a Reviewer that sends prompts to backend.
func New(backend llm.Backend) *Reviewer {
	return &Reviewer{backend: backend, now: time.Now}
}

// Validate checks the free-text inputs of req.
func Validate(req types.Request) error {
	req = req.Normalize()
	if !req.Task.Valid() {
		return fmt.Errorf("%w: %q", prompt.ErrUnknownTask, req.Task)
	}
	if req.JobTitle == "" {
		return ErrMissingJobTitle
	}
	if utf8.RuneCountInString(req.JobTitle) > types.MaxJobTitleLen {
		return fmt.Errorf("%w: %d characters, limit is %d",
			ErrJobTitleTooLong, utf8.RuneCountInString(req.JobTitle), types.MaxJobTitleLen)
	}
	return nil
}

// Run validates req, extracts the text of doc, and returns the model's
// answer. The backend is never called when the extracted text is blank.
func (r *Reviewer) Run(ctx context.Context, doc types.Document, req types.Request) (Result, error) {
	if len(doc.Data) == 0 && doc.Name == "" {
		return Result{}, ErrMissingFile
	}
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	text, err := extract.Text(doc)
	if err != nil {
		return Result{}, err
	}
	if extract.IsBlank(text) {
		return Result{}, ErrEmptyFile
	}

	p, err := prompt.Build(req, text)
	if err != nil {
		return Result{}, err
	}

	start := r.now()
	markdown, err := r.backend.Complete(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	return Result{
		Markdown: markdown,
		Model:    r.backend.Model(),
		Elapsed:  r.now().Sub(start),
	}, nil
}
