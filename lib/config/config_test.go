// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atelier.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.URL != "http://localhost:8000" {
		t.Errorf("default server URL = %q", cfg.Server.URL)
	}
	if cfg.Server.RequestTimeout.Std() != 30*time.Second {
		t.Errorf("default timeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Environment != Development {
		t.Errorf("default environment = %q", cfg.Environment)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.Server.URL != "http://localhost:8000" {
			t.Errorf("server URL = %q, want default", cfg.Server.URL)
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  url: https://api.example.com
  request_timeout: 10s
session:
  file: /tmp/atelier-test-session.json
`)
		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if cfg.Server.URL != "https://api.example.com" {
			t.Errorf("server URL = %q", cfg.Server.URL)
		}
		if cfg.Server.RequestTimeout.Std() != 10*time.Second {
			t.Errorf("timeout = %v", cfg.Server.RequestTimeout)
		}
		if cfg.Session.File != "/tmp/atelier-test-session.json" {
			t.Errorf("session file = %q", cfg.Session.File)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeConfig(t, "server: [not a mapping")
		if _, err := LoadFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("invalid server URL is an error", func(t *testing.T) {
		path := writeConfig(t, "server:\n  url: not-a-url\n")
		if _, err := LoadFile(path); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  url: http://localhost:8000
production:
  server:
    url: https://atelier.example.com
    request_timeout: 5s
staging:
  server:
    url: https://staging.example.com
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.URL != "https://atelier.example.com" {
		t.Errorf("server URL = %q, want production override", cfg.Server.URL)
	}
	if cfg.Server.RequestTimeout.Std() != 5*time.Second {
		t.Errorf("timeout = %v, want production override", cfg.Server.RequestTimeout)
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/ada")
	path := writeConfig(t, "session:\n  file: ${HOME}/.config/atelier/session.json\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Session.File != "/home/ada/.config/atelier/session.json" {
		t.Errorf("session file = %q", cfg.Session.File)
	}
}

func TestLoadEnvironmentVariable(t *testing.T) {
	t.Run("unset means defaults", func(t *testing.T) {
		t.Setenv("ATELIER_CONFIG", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.URL != "http://localhost:8000" {
			t.Errorf("server URL = %q", cfg.Server.URL)
		}
	})

	t.Run("set points at a file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  url: https://api.example.com\n")
		t.Setenv("ATELIER_CONFIG", path)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.URL != "https://api.example.com" {
			t.Errorf("server URL = %q", cfg.Server.URL)
		}
	})
}
