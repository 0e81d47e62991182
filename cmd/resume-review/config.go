// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-review/internal/secrets"
	"github.com/pdiddy/resume-review/pkg/types"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the settings resume-review would run with after merging
the config file, RESUME_REVIEW_* environment variables, flags, and defaults.
The API key is redacted; the output can be saved as resume-review.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return writeConfigYAML(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the merged viper settings. When no api_key is set the
// credential comes from the provider's environment variable or .secrets/
// file.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.AI = cfg.AI.WithDefaults()
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = secrets.Lookup(loadedSecrets, string(cfg.AI.Provider))
	}
	return cfg, nil
}

func writeConfigYAML(w io.Writer, cfg types.Config) error {
	if cfg.AI.APIKey != "" {
		cfg.AI.APIKey = redacted
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return enc.Close()
}
