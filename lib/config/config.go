// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration file loading for memobridge.
//
// Configuration is loaded from a single YAML file specified by:
//   - the MEMOBRIDGE_CONFIG environment variable, or
//   - the --config flag passed to the command.
//
// There are no fallbacks or automatic discovery. Command-line flags and
// the MEMOS_HOST / MEMOS_TOKEN environment variables override file values,
// so the file is optional — it exists for installations that prefer a
// checked-in configuration over long flag lines.
//
// The file never carries the credential itself; it points at one via
// token_path, read through lib/secret.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "MEMOBRIDGE_CONFIG"

// Config is the memobridge configuration file schema.
type Config struct {
	// Host is the Memos server host (e.g., "localhost:5230" or a full
	// https:// URL).
	Host string `yaml:"host"`

	// TokenPath is a file containing a personal access token for the
	// Memos server. Mutually exclusive with Username.
	TokenPath string `yaml:"token_path"`

	// Username selects sign-in mode: a derived session is created via
	// the sign-in endpoint and signed out on shutdown.
	Username string `yaml:"username"`

	// PasswordFile is a file containing the password for Username.
	// When empty, the password is prompted for interactively.
	PasswordFile string `yaml:"password_file"`

	// LogLevel is the slog level name: debug, info, warn, or error.
	// Empty means info.
	LogLevel string `yaml:"log_level"`
}

// Load reads and parses the config file at path. When path is empty, the
// MEMOBRIDGE_CONFIG environment variable is consulted; when that is also
// unset, an empty Config is returned — all values must then come from
// flags or the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.TokenPath != "" && cfg.Username != "" {
		return nil, fmt.Errorf("config: %s sets both token_path and username; pick one", path)
	}

	return &cfg, nil
}
