// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-review/internal/extract"
	"github.com/pdiddy/resume-review/internal/llm"
	"github.com/pdiddy/resume-review/internal/prompt"
	"github.com/pdiddy/resume-review/pkg/types"
)

// mockBackend records the prompts it receives and replays a canned answer.
type mockBackend struct {
	reply string
	err   error
	calls []prompt.Prompt
}

func (m *mockBackend) Complete(_ context.Context, p prompt.Prompt) (string, error) {
	m.calls = append(m.calls, p)
	return m.reply, m.err
}

func (m *mockBackend) Model() string { return "mock-model" }

func textDoc(content string) types.Document {
	return types.Document{Name: "resume.txt", MIMEType: extract.MIMEText, Data: []byte(content)}
}

func reviewReq(title string) types.Request {
	return types.Request{Task: types.TaskReview, JobTitle: title}
}

func TestRunSuccess(t *testing.T) {
	backend := &mockBackend{reply: "### Strengths\n:green[Clear impact]"}
	r := New(backend)

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		tick = tick.Add(1500 * time.Millisecond)
		return tick
	}

	res, err := r.Run(context.Background(), textDoc("Jane Doe\nGo developer"), types.Request{
		Task:           types.TaskReview,
		JobTitle:       "  Backend Engineer ",
		JobDescription: "Build APIs",
	})
	require.NoError(t, err)

	assert.Equal(t, "### Strengths\n:green[Clear impact]", res.Markdown)
	assert.Equal(t, "mock-model", res.Model)
	assert.Equal(t, 1500*time.Millisecond, res.Elapsed)

	require.Len(t, backend.calls, 1)
	p := backend.calls[0]
	assert.Contains(t, p.System, "expert resume reviewer")
	assert.Contains(t, p.User, "Backend Engineer industry")
	assert.Contains(t, p.User, "Build APIs")
	assert.Contains(t, p.User, "Jane Doe\nGo developer")
}

func TestRunCoverLetter(t *testing.T) {
	backend := &mockBackend{reply: "Dear Hiring Manager,"}

	res, err := New(backend).Run(context.Background(), textDoc("Jane Doe"), types.Request{
		Task:     types.TaskCoverLetter,
		JobTitle: "Data Analyst",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,", res.Markdown)
	require.Len(t, backend.calls, 1)
	assert.Contains(t, backend.calls[0].User, "Data Analyst position")
}

func TestRunInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    types.Document
		req    types.Request
		wantIs error
	}{
		{
			name:   "no file",
			doc:    types.Document{},
			req:    reviewReq("Engineer"),
			wantIs: ErrMissingFile,
		},
		{
			name:   "blank job title",
			doc:    textDoc("Jane"),
			req:    reviewReq("   "),
			wantIs: ErrMissingJobTitle,
		},
		{
			name:   "job title too long",
			doc:    textDoc("Jane"),
			req:    reviewReq(strings.Repeat("x", types.MaxJobTitleLen+1)),
			wantIs: ErrJobTitleTooLong,
		},
		{
			name:   "empty file",
			doc:    types.Document{Name: "resume.txt", MIMEType: extract.MIMEText},
			req:    reviewReq("Engineer"),
			wantIs: ErrEmptyFile,
		},
		{
			name:   "whitespace only file",
			doc:    textDoc(" \n\t "),
			req:    reviewReq("Engineer"),
			wantIs: ErrEmptyFile,
		},
		{
			name:   "unsupported type",
			doc:    types.Document{Name: "resume.png", MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
			req:    reviewReq("Engineer"),
			wantIs: extract.ErrUnsupportedType,
		},
		{
			name:   "unknown task",
			doc:    textDoc("Jane"),
			req:    types.Request{Task: "poem", JobTitle: "Engineer"},
			wantIs: prompt.ErrUnknownTask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{reply: "unused"}
			_, err := New(backend).Run(context.Background(), tt.doc, tt.req)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Empty(t, backend.calls, "backend must not be called")
		})
	}
}

func TestRunJobTitleAtLimit(t *testing.T) {
	backend := &mockBackend{reply: "ok"}
	title := strings.Repeat("é", types.MaxJobTitleLen)

	_, err := New(backend).Run(context.Background(), textDoc("Jane"), reviewReq(title))
	require.NoError(t, err)
	assert.Len(t, backend.calls, 1)
}

func TestRunBackendError(t *testing.T) {
	apiErr := &llm.APIError{StatusCode: 401, Message: "Bad credentials"}
	backend := &mockBackend{err: apiErr}

	_, err := New(backend).Run(context.Background(), textDoc("Jane"), reviewReq("Engineer"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletion)

	var got *llm.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 401, got.StatusCode)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(reviewReq("Engineer")))
	assert.ErrorIs(t, Validate(reviewReq("")), ErrMissingJobTitle)
	assert.ErrorIs(t, Validate(types.Request{JobTitle: "Engineer"}), prompt.ErrUnknownTask)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		warning bool
	}{
		{"missing file", ErrMissingFile, "Please upload a file and enter a job title before analyzing.", true},
		{"missing title", ErrMissingJobTitle, "Please upload a file and enter a job title before analyzing.", true},
		{"empty file", ErrEmptyFile, "The file is empty.", true},
		{"too long", ErrJobTitleTooLong, "100 characters", true},
		{"unsupported", extract.ErrUnsupportedType, "Unsupported file type", true},
		{"api error", errors.Join(ErrCompletion, &llm.APIError{StatusCode: 429, Message: "rate limited"}), "HTTP 429): rate limited", false},
		{"timeout", context.DeadlineExceeded, "timed out", false},
		{"completion", errors.Join(ErrCompletion, llm.ErrEmptyCompletion), "contacting the analysis service", false},
		{"extraction", errors.New("malformed PDF"), "Could not read the uploaded file: malformed PDF", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, warning := UserMessage(tt.err)
			assert.Contains(t, msg, tt.want)
			assert.Equal(t, tt.warning, warning)
		})
	}
}
