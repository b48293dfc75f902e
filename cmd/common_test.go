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
package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestProject creates a temporary project with migrations and
// query files and changes into it. Global flags are reset so every
// test starts from defaults.
func setupTestProject(t *testing.T) (string, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "migratype_cmd_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	for _, dir := range []string{"migrations", "queries"} {
		if err := os.MkdirAll(filepath.Join(tempDir, dir), 0755); err != nil {
			t.Fatalf("Failed to create %s directory: %v", dir, err)
		}
	}

	createTodos := `CREATE TABLE todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    done BOOLEAN NOT NULL DEFAULT 0
);
`
	addDueDate := `ALTER TABLE todos ADD COLUMN due_date TEXT;
CREATE UNIQUE INDEX idx_todos_title ON todos(title);
`
	todosQueries := `table: todos
queries:
  - name: findByTitle
    params:
      - name: title
        type: string
    sql: SELECT * FROM todos WHERE title = ?
`
	writeFile := func(path, content string) {
		if err := os.WriteFile(filepath.Join(tempDir, path), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	writeFile(filepath.Join("migrations", "001_create_todos.sql"), createTodos)
	writeFile(filepath.Join("migrations", "002_add_due_date.sql"), addDueDate)
	writeFile(filepath.Join("queries", "todos.yaml"), todosQueries)

	originalDir, _ := os.Getwd()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	// Reset global flags
	configFile = ""
	dryRun = false
	verbose = false
	inputFile = ""
	outputFile = ""

	cleanup := func() {
		_ = os.Chdir(originalDir)
		os.RemoveAll(tempDir)
	}
	return tempDir, cleanup
}

func readGenerated(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(content)
}

func TestExecuteGenerate_AllTargets(t *testing.T) {
	_, cleanup := setupTestProject(t)
	defer cleanup()

	if err := executeGenerate(allTargets(), false); err != nil {
		t.Fatalf("executeGenerate failed: %v", err)
	}

	for _, path := range []string{
		filepath.Join("src", "db", "models", "todos.ts"),
		filepath.Join("src", "db", "models", "index.ts"),
		filepath.Join("src", "db", "migrations.ts"),
		filepath.Join("src", "db", "services", "runtime.ts"),
		filepath.Join("src", "db", "services", "todos.service.ts"),
		filepath.Join("src", "db", "dexie.ts"),
	} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Expected %s to be generated", path)
		}
	}

	// Import paths are relative to each artifact's own directory.
	service := readGenerated(t, filepath.Join("src", "db", "services", "todos.service.ts"))
	if !strings.Contains(service, "from '../models/todos'") {
		t.Error("Expected service to import models via '../models/todos'")
	}
	if !strings.Contains(service, "async findByTitle(title: string)") {
		t.Error("Expected service to include the findByTitle query method")
	}

	dexie := readGenerated(t, filepath.Join("src", "db", "dexie.ts"))
	if !strings.Contains(dexie, "from './models/todos'") {
		t.Error("Expected dexie schema to import models via './models/todos'")
	}
}

func TestExecuteGenerate_ModelsOnly(t *testing.T) {
	_, cleanup := setupTestProject(t)
	defer cleanup()

	if err := executeGenerate(targets{models: true}, false); err != nil {
		t.Fatalf("executeGenerate failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join("src", "db", "models", "todos.ts")); os.IsNotExist(err) {
		t.Error("Expected models to be generated")
	}
	for _, path := range []string{
		filepath.Join("src", "db", "migrations.ts"),
		filepath.Join("src", "db", "dexie.ts"),
	} {
		if _, err := os.Stat(path); err == nil {
			t.Errorf("Expected %s to be absent for the model target", path)
		}
	}
}

func TestExecuteGenerate_SingleFileOverride(t *testing.T) {
	_, cleanup := setupTestProject(t)
	defer cleanup()

	inputFile = filepath.Join("migrations", "001_create_todos.sql")

	if err := executeGenerate(targets{models: true}, false); err != nil {
		t.Fatalf("executeGenerate failed: %v", err)
	}

	model := readGenerated(t, filepath.Join("src", "db", "models", "todos.ts"))
	if !strings.Contains(model, "title") {
		t.Error("Expected the overriding file's columns to be generated")
	}
	if strings.Contains(model, "due_date") {
		t.Error("Expected later migrations to be excluded in single-file mode")
	}

	// A file that only alters a table cannot stand alone.
	inputFile = filepath.Join("migrations", "002_add_due_date.sql")
	err := executeGenerate(targets{models: true}, false)
	if err == nil {
		t.Fatal("Expected a conflict for an override file that alters an unknown table")
	}
	if !strings.Contains(err.Error(), "schema conflict") {
		t.Errorf("Expected a schema conflict, got %v", err)
	}
}

func TestExecuteGenerate_DexieDisabled(t *testing.T) {
	_, cleanup := setupTestProject(t)
	defer cleanup()

	configYAML := `dexie:
  enabled: false
`
	if err := os.WriteFile("migratype.config.yaml", []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	// The all command respects the gate.
	if err := executeGenerate(allTargets(), false); err != nil {
		t.Fatalf("executeGenerate failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join("src", "db", "dexie.ts")); err == nil {
		t.Error("Expected dexie.ts to be skipped when dexie.enabled is false")
	}

	// The explicit dexie target ignores it.
	if err := executeGenerate(targets{dexie: true}, false); err != nil {
		t.Fatalf("executeGenerate failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join("src", "db", "dexie.ts")); os.IsNotExist(err) {
		t.Error("Expected dexie.ts to be generated for the explicit dexie target")
	}
}

func TestExecuteGenerate_DryRun(t *testing.T) {
	_, cleanup := setupTestProject(t)
	defer cleanup()

	if err := executeGenerate(allTargets(), true); err != nil {
		t.Fatalf("executeGenerate failed: %v", err)
	}

	if _, err := os.Stat("src"); err == nil {
		t.Error("Expected dry run to create no files")
	}
}

func TestExecuteGenerate_MissingMigrations(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "migratype_cmd_empty_*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	originalDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalDir) }()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatal(err)
	}
	configFile = ""
	verbose = false
	inputFile = ""
	outputFile = ""

	err = executeGenerate(allTargets(), false)
	if err == nil {
		t.Fatal("Expected error for missing migrations directory")
	}
	if !strings.Contains(err.Error(), "failed to scan migrations") {
		t.Errorf("Expected scan failure, got %v", err)
	}
}

func TestRelImportBase(t *testing.T) {
	tests := []struct {
		name     string
		fromDir  string
		toDir    string
		expected string
	}{
		{"sibling directory", "src/db/services", "src/db/models", "../models"},
		{"child directory", "src/db", "src/db/models", "./models"},
		{"same directory", "src/db/models", "src/db/models", "."},
		{"distant directory", "out/services", "src/models", "../../src/models"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := relImportBase(tt.fromDir, tt.toDir)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestWatchedFile(t *testing.T) {
	tests := []struct {
		name    string
		watched bool
	}{
		{"migrations/001_init.sql", true},
		{"queries/todos.yaml", true},
		{"queries/todos.yml", true},
		{"migrations/.migratypeignore", true},
		{"migrations/notes.txt", false},
		{"migrations/001_init.sql.swp", false},
	}

	for _, tt := range tests {
		if got := watchedFile(tt.name); got != tt.watched {
			t.Errorf("watchedFile(%q) = %v, expected %v", tt.name, got, tt.watched)
		}
	}
}
