/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Migrations.Directory != "migrations" {
		t.Errorf("Expected migrations, got %s", cfg.Migrations.Directory)
	}
	if cfg.Migrations.FilePattern != `^(\d+)[-_].*\.sql$` {
		t.Errorf("Unexpected file pattern: %s", cfg.Migrations.FilePattern)
	}
	if cfg.Queries.Directory != "queries" {
		t.Errorf("Expected queries, got %s", cfg.Queries.Directory)
	}
	if cfg.Services.Framework != "plain" {
		t.Errorf("Expected plain, got %s", cfg.Services.Framework)
	}
	if cfg.Services.Hooks {
		t.Error("Expected hooks disabled by default")
	}
	if !cfg.Dexie.Enabled {
		t.Error("Expected dexie enabled by default")
	}
	if cfg.Dexie.DatabaseName != "app" || cfg.Dexie.ClassName != "AppDatabase" {
		t.Errorf("Unexpected dexie defaults: %s, %s", cfg.Dexie.DatabaseName, cfg.Dexie.ClassName)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migratype.config.yaml")
	content := `migrations:
  directory: db/migrations
services:
  framework: react
  hooks: true
dexie:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Migrations.Directory != "db/migrations" {
		t.Errorf("Expected db/migrations, got %s", cfg.Migrations.Directory)
	}
	if cfg.Services.Framework != "react" {
		t.Errorf("Expected react, got %s", cfg.Services.Framework)
	}
	if !cfg.Services.Hooks {
		t.Error("Expected hooks enabled")
	}
	if cfg.Dexie.Enabled {
		t.Error("Expected dexie disabled")
	}
	// Untouched keys keep their defaults.
	if cfg.Queries.Directory != "queries" {
		t.Errorf("Expected queries, got %s", cfg.Queries.Directory)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MIGRATYPE_SERVICES_FRAMEWORK", "angular")

	path := filepath.Join(t.TempDir(), "migratype.config.yaml")
	if err := os.WriteFile(path, []byte("services:\n  framework: react\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Services.Framework != "angular" {
		t.Errorf("Expected environment to win, got %s", cfg.Services.Framework)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if cfg.Services.Framework != "plain" {
		t.Errorf("Expected defaults, got %s", cfg.Services.Framework)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "migratype.config.yaml")

	cfg := DefaultConfig()
	cfg.Services.Framework = "react"
	cfg.Output.ModelsDir = "web/models"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Migratype Configuration File") {
		t.Error("Expected header comment")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded.Services.Framework != "react" {
		t.Errorf("Expected react, got %s", loaded.Services.Framework)
	}
	if loaded.Output.ModelsDir != "web/models" {
		t.Errorf("Expected web/models, got %s", loaded.Output.ModelsDir)
	}
}
