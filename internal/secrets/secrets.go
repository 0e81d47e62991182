// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognised key files: github-token, openai-api-key, gemini-api-key. See
// CredentialKey for how a provider maps to its file.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// CredentialKey returns the secrets file name and environment variable that
// hold the API credential for provider. Unknown providers fall back to the
// OpenAI names since every other backend speaks that protocol.
func CredentialKey(provider string) (file, env string) {
	switch provider {
	case "github", "":
		return "github-token", "GITHUB_TOKEN"
	case "gemini":
		return "gemini-api-key", "GEMINI_API_KEY"
	}
	return "openai-api-key", "OPENAI_API_KEY"
}

// Lookup resolves the credential for provider: the environment variable
// wins over the secrets file so deployments can override local files.
func Lookup(secrets map[string]string, provider string) string {
	file, env := CredentialKey(provider)
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return secrets[file]
}
