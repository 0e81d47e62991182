// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-review/internal/review"
	"github.com/pdiddy/resume-review/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Serve starts the web UI with the Resume Review and Cover Letter
Generator pages. Each submission is handled synchronously; the page keeps
its inputs disabled until the model answers or the request fails.

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8501)")
	serveCmd.Flags().Int("max-upload-mb", 0, "largest accepted upload in MB (default 10)")
	serveCmd.Flags().String("log-format", "text", "log format: text or json")
	serveCmd.Flags().Bool("debug", false, "enable debug logging")

	if err := viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("server.max_upload_mb", serveCmd.Flags().Lookup("max-upload-mb")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("log-format")
	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := newLogger(cmd.ErrOrStderr(), format, debug)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, cfg.AI)
	if err != nil {
		return err
	}

	logger.Info("starting resume-review",
		"version", version,
		"addr", cfg.Server.Addr,
		"provider", string(cfg.AI.Provider),
		"model", backend.Model(),
		"max_upload_mb", cfg.Server.MaxUploadMB)

	srv := web.NewServer(cfg.Server, review.New(backend), logger)
	return srv.ListenAndServe(ctx)
}

func newLogger(w io.Writer, format string, debug bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	switch format {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unsupported log format %q: use text or json", format)
}
