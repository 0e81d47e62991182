// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pdiddy/resume-review/internal/render"
	"github.com/pdiddy/resume-review/internal/review"
	"github.com/pdiddy/resume-review/pkg/types"
)

// formOverhead is the room left above the file limit for the text fields
// and multipart framing.
const formOverhead = 1 << 20

var (
	errTooLarge = errors.New("upload exceeds the size limit")
	errBadForm  = errors.New("malformed form submission")
)

// submission is one parsed form post.
type submission struct {
	doc  types.Document
	req  types.Request
	form Form
}

// apiResponse is the JSON body of POST /api/review and /api/cover.
type apiResponse struct {
	RequestID string `json:"request_id"`
	HTML      string `json:"html,omitempty"`
	Markdown  string `json:"markdown,omitempty"`
	Model     string `json:"model,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
	Warning   string `json:"warning,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handlePage(task types.Task) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writePage(w, r, http.StatusOK, Page{Task: task, RequestID: requestID(r.Context())})
	}
}

func (s *Server) handleSubmit(task types.Task) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := s.process(w, r, task)
		s.writePage(w, r, out.status, out.page)
	}
}

func (s *Server) handleAPI(task types.Task) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := s.process(w, r, task)
		page := out.page

		resp := apiResponse{
			RequestID: page.RequestID,
			HTML:      string(page.Result),
			Markdown:  page.Markdown,
			Model:     page.Model,
			ElapsedMS: out.modelElapsed.Milliseconds(),
			Warning:   page.Warning,
			Error:     page.Error,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(out.status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			s.logger.ErrorContext(r.Context(), "encoding api response", "request_id", page.RequestID, "error", err)
		}
	}
}

// outcome is the result of handling one submission.
type outcome struct {
	status       int
	page         Page
	modelElapsed time.Duration
}

// process runs one submission through the pipeline and returns the status
// code and the page state to show. Processing is always false on return.
func (s *Server) process(w http.ResponseWriter, r *http.Request, task types.Task) outcome {
	ctx := r.Context()
	page := Page{Task: task, RequestID: requestID(ctx)}
	start := time.Now()

	sub, err := s.readSubmission(w, r, task)
	// r is the copy made by withRequestID; net/http only cleans up the original.
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	page.Form = sub.form

	var status int
	var res review.Result
	switch {
	case errors.Is(err, errTooLarge):
		status = http.StatusRequestEntityTooLarge
		page.Warning = fmt.Sprintf("The file is too large. Please upload a file under %d MB.", s.cfg.MaxUploadMB)
	case err != nil:
		status = http.StatusBadRequest
		page.Warning = "The form could not be read. Please try again."
	default:
		res, err = s.reviewer.Run(ctx, sub.doc, sub.req)
		status = http.StatusOK
	}

	if err == nil {
		html, rerr := render.Markdown(res.Markdown)
		if rerr != nil {
			err = rerr
			status = http.StatusInternalServerError
			page.Error = "The result could not be displayed."
		} else {
			page.Result = html
			page.Markdown = res.Markdown
			page.Model = res.Model
		}
	} else if status == http.StatusOK {
		msg, warning := review.UserMessage(err)
		if warning {
			status = http.StatusUnprocessableEntity
			page.Warning = msg
		} else {
			status = statusForError(err)
			page.Error = msg
		}
	}

	elapsed := time.Since(start)

	attrs := []slog.Attr{
		slog.String("request_id", page.RequestID),
		slog.String("task", string(task)),
		slog.Int("status", status),
		slog.Duration("elapsed", elapsed),
		slog.String("file", sub.doc.Name),
		slog.Int("bytes", len(sub.doc.Data)),
	}
	level := slog.LevelInfo
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else {
			level = slog.LevelWarn
		}
	} else {
		attrs = append(attrs, slog.String("model", res.Model), slog.Duration("model_elapsed", res.Elapsed))
	}
	s.logger.LogAttrs(ctx, level, "request finished", attrs...)

	return outcome{status: status, page: page, modelElapsed: res.Elapsed}
}

// readSubmission parses the multipart form. A missing file is not an error
// here; the pipeline reports it.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request, task types.Task) (submission, error) {
	var sub submission
	limit := s.cfg.MaxUploadBytes()

	if r.ContentLength > limit+formOverhead {
		return sub, errTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return sub, errTooLarge
		}
		return sub, fmt.Errorf("%w: %w", errBadForm, err)
	}

	sub.req = types.Request{
		Task:           task,
		JobTitle:       r.FormValue("job"),
		JobDescription: r.FormValue("job_desc"),
		Details:        r.FormValue("details"),
	}
	sub.form = Form{
		JobTitle:       sub.req.JobTitle,
		JobDescription: sub.req.JobDescription,
		Details:        sub.req.Details,
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return sub, nil
	}
	if err != nil {
		return sub, fmt.Errorf("%w: %w", errBadForm, err)
	}
	defer file.Close()

	sub.form.FileName = header.Filename
	if header.Size > limit {
		return sub, errTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return sub, fmt.Errorf("%w: reading %s: %w", errBadForm, header.Filename, err)
	}
	sub.doc = types.Document{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	}
	return sub, nil
}

// statusForError picks the status for failures that are not form
// warnings. Anything short of a model failure is a file the server could
// not read.
func statusForError(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, review.ErrCompletion):
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page Page) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, page); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering page", "request_id", page.RequestID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
