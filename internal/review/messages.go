// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/resume-review/internal/extract"
	"github.com/pdiddy/resume-review/internal/llm"
)

const (
	msgMissingInput = "Please upload a file and enter a job title before analyzing."
	msgEmptyFile    = "The file is empty."
)

// UserMessage maps a pipeline error to the inline text shown to the user.
// warning is true for problems the user can fix in the form; everything
// else is shown as an error.
func UserMessage(err error) (msg string, warning bool) {
	var apiErr *llm.APIError
	switch {
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrMissingJobTitle):
		return msgMissingInput, true
	case errors.Is(err, ErrJobTitleTooLong):
		return "Please shorten the job title to 100 characters or fewer.", true
	case errors.Is(err, ErrEmptyFile):
		return msgEmptyFile, true
	case errors.Is(err, extract.ErrUnsupportedType):
		return "Unsupported file type. Please upload a PDF, TXT, or DOCX file.", true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled or timed out before the analysis finished.", false
	case errors.As(err, &apiErr):
		return fmt.Sprintf("The analysis service returned an error (HTTP %d): %s", apiErr.StatusCode, apiErr.Message), false
	case errors.Is(err, ErrCompletion):
		return fmt.Sprintf("An error occurred while contacting the analysis service: %v", err), false
	}
	return fmt.Sprintf("Could not read the uploaded file: %v", err), false
}
