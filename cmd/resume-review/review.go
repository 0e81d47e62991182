// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-review/internal/llm"
	"github.com/pdiddy/resume-review/internal/render"
	"github.com/pdiddy/resume-review/internal/review"
	"github.com/pdiddy/resume-review/pkg/types"
)

// newBackend builds the model backend; tests replace it.
var newBackend = llm.New

var reviewCmd = &cobra.Command{
	Use:   "review FILE",
	Short: "Assess a resume against a target job title",
	Long: `Review extracts the text of FILE (PDF, TXT, or DOCX), asks the model for
a hiring-manager style assessment for the given job title, and writes the
markdown answer to stdout. Use --html to get rendered HTML instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTaskCmd(cmd, types.TaskReview, args[0])
	},
}

var coverCmd = &cobra.Command{
	Use:   "cover FILE",
	Short: "Draft a cover letter from a resume",
	Long: `Cover extracts the text of FILE (PDF, TXT, or DOCX) and asks the model for
a cover letter for the given job title, grounded in the resume. The letter
is written to stdout as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTaskCmd(cmd, types.TaskCoverLetter, args[0])
	},
}

// taskOptions are the per-run inputs taken from flags.
type taskOptions struct {
	Request types.Request
	HTML    bool
}

func runTaskCmd(cmd *cobra.Command, task types.Task, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	job, _ := cmd.Flags().GetString("job")
	jobDesc, _ := cmd.Flags().GetString("job-desc")
	jobDescFile, _ := cmd.Flags().GetString("job-desc-file")
	details, _ := cmd.Flags().GetString("details")
	asHTML, _ := cmd.Flags().GetBool("html")

	if jobDescFile != "" {
		data, err := os.ReadFile(jobDescFile)
		if err != nil {
			return fmt.Errorf("reading job description: %w", err)
		}
		jobDesc = string(data)
	}

	opts := taskOptions{
		Request: types.Request{
			Task:           task,
			JobTitle:       job,
			JobDescription: jobDesc,
			Details:        details,
		},
		HTML: asHTML,
	}
	return runTask(cmd.Context(), cfg.AI, path, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runTask runs one pipeline pass on the file at path. The answer goes to
// out; status lines and user-facing errors go to status.
func runTask(ctx context.Context, cfg types.AIConfig, path string, opts taskOptions, out, status io.Writer) error {
	if err := review.Validate(opts.Request); err != nil {
		return reportFailure(status, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading resume: %w", err)
	}
	doc := types.Document{Name: filepath.Base(path), Data: data}

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(status, "%s: %s for %q with %s...\n",
		opts.Request.Task.Title(), doc.Name, opts.Request.Normalize().JobTitle, backend.Model())

	res, err := review.New(backend).Run(ctx, doc, opts.Request)
	if err != nil {
		return reportFailure(status, err)
	}

	text := res.Markdown
	if opts.HTML {
		html, err := render.Markdown(res.Markdown)
		if err != nil {
			return err
		}
		text = string(html)
	}

	if _, err := fmt.Fprintln(out, text); err != nil {
		return err
	}
	fmt.Fprintf(status, "Done in %s\n", res.Elapsed.Round(100*time.Millisecond))
	return nil
}

// reportFailure prints the message a UI user would see and returns err for
// the exit status.
func reportFailure(status io.Writer, err error) error {
	msg, warning := review.UserMessage(err)
	if warning {
		fmt.Fprintf(status, "Warning: %s\n", msg)
	} else {
		fmt.Fprintf(status, "Error: %s\n", msg)
	}
	return err
}

func init() {
	for _, c := range []*cobra.Command{reviewCmd, coverCmd} {
		c.Flags().String("job", "", "target career or job title (required, max 100 characters)")
		c.Flags().String("job-desc", "", "job listing text")
		c.Flags().String("job-desc-file", "", "read the job listing text from a file")
		c.Flags().String("details", "", "additional details for the model to consider")
		c.Flags().Bool("html", false, "write rendered HTML instead of markdown")
		rootCmd.AddCommand(c)
	}
}
