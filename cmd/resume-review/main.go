// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the resume-review CLI. The serve
// subcommand runs the web UI; review and cover run the same pipeline once
// from the terminal.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-review/internal/secrets"
	"github.com/pdiddy/resume-review/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the resume-review CLI.
var rootCmd = &cobra.Command{
	Use:   "resume-review",
	Short: "Review resumes and draft cover letters with a hosted language model",
	Long: `resume-review sends the text of a resume (PDF, TXT, or DOCX) to a hosted
chat-completion model together with a target job title and optional job
description, and returns a markdown assessment or a cover letter.

Run "resume-review serve" for the web UI, or "resume-review review FILE"
to get an assessment in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./resume-review.yaml or ~/.config/resume-review/resume-review.yaml)")
	flags.String("provider", "", "model provider: github, openai, or gemini (default github)")
	flags.String("model", "", "model identifier (default openai/gpt-4.1)")
	flags.String("endpoint", "", "chat completions base URL")

	for key, name := range map[string]string{
		"ai.provider": "provider",
		"ai.model":    "model",
		"ai.endpoint": "endpoint",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding --%s: %v", name, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("resume-review")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "resume-review"))
		}
	}

	configureViper()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureViper sets the env mapping and defaults. RESUME_REVIEW_AI_MODEL
// overrides ai.model, and so on for every key.
func configureViper() {
	viper.SetEnvPrefix("RESUME_REVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("ai.provider", string(types.DefaultProvider))
	viper.SetDefault("ai.endpoint", "")
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.temperature", types.DefaultTemperature)
	viper.SetDefault("ai.max_tokens", types.DefaultMaxTokens)
	viper.SetDefault("ai.max_retries", 0)
	viper.SetDefault("ai.timeout", types.DefaultTimeout)
	viper.SetDefault("server.addr", types.DefaultAddr)
	viper.SetDefault("server.max_upload_mb", types.DefaultMaxUploadMB)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
