// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memobridge.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
host: memos.example.net:5230
token_path: /run/secrets/memos-token
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "memos.example.net:5230" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.TokenPath != "/run/secrets/memos-token" {
		t.Errorf("TokenPath = %q", cfg.TokenPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_NoPathNoEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "" || cfg.TokenPath != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	path := writeConfig(t, "host: fromenv:5230\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "fromenv:5230" {
		t.Errorf("Host = %q, want fromenv:5230", cfg.Host)
	}
}

func TestLoad_ConflictingCredentials(t *testing.T) {
	path := writeConfig(t, `
host: localhost:5230
token_path: /tmp/token
username: alice
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for token_path + username")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
