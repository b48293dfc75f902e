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
package queries

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/report"
)

func newTestLoader() *Loader {
	return NewLoader(fsio.NewOS(), report.NewWithOutput(false, io.Discard))
}

func writeQueryFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "todos.yaml", `queries:
  - name: findByTitle
    params:
      - name: title
        type: string
    sql: SELECT * FROM todos WHERE title = ?
  - name: markAllDone
    mode: exec
    sql: UPDATE todos SET done = 1
`)

	file, err := newTestLoader().Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if file.Table != "todos" {
		t.Errorf("Expected table todos, got %s", file.Table)
	}
	if len(file.Queries) != 2 {
		t.Fatalf("Expected 2 queries, got %d", len(file.Queries))
	}

	q := file.Queries[0]
	if q.Name != "findByTitle" {
		t.Errorf("Expected findByTitle, got %s", q.Name)
	}
	if q.Mode != ModeMany {
		t.Errorf("Expected default mode many, got %s", q.Mode)
	}
	if len(q.Params) != 1 || q.Params[0].Name != "title" || q.Params[0].Type != "string" {
		t.Errorf("Unexpected params: %+v", q.Params)
	}
	if !q.Returns() {
		t.Error("Expected a many query to return rows")
	}

	if file.Queries[1].Returns() {
		t.Error("Expected an exec query not to return rows")
	}
}

func TestLoader_TableOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeQueryFile(t, dir, "reporting.yaml", `table: users
queries:
  - name: countUsers
    mode: one
    sql: SELECT COUNT(*) AS n FROM users
`)

	file, err := newTestLoader().Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if file.Table != "users" {
		t.Errorf("Expected table users, got %s", file.Table)
	}
	if !file.Queries[0].Single() {
		t.Error("Expected a one query to be single")
	}
}

func TestLoader_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "empty file",
			content: "   \n",
			errPart: "empty",
		},
		{
			name:    "invalid yaml",
			content: "queries: [unclosed",
			errPart: "invalid YAML",
		},
		{
			name:    "missing name",
			content: "queries:\n  - sql: SELECT 1\n",
			errPart: "no name",
		},
		{
			name:    "reserved word name",
			content: "queries:\n  - name: delete\n    sql: SELECT 1\n",
			errPart: "not a valid method name",
		},
		{
			name:    "duplicate name",
			content: "queries:\n  - name: a\n    sql: SELECT 1\n  - name: a\n    sql: SELECT 2\n",
			errPart: "duplicate query name",
		},
		{
			name:    "missing sql",
			content: "queries:\n  - name: a\n",
			errPart: "no sql",
		},
		{
			name:    "bad mode",
			content: "queries:\n  - name: a\n    mode: stream\n    sql: SELECT 1\n",
			errPart: "unknown mode",
		},
		{
			name:    "param without type",
			content: "queries:\n  - name: a\n    params:\n      - name: id\n    sql: SELECT 1\n",
			errPart: "no type",
		},
		{
			name:    "duplicate param",
			content: "queries:\n  - name: a\n    params:\n      - name: id\n        type: number\n      - name: id\n        type: number\n    sql: SELECT 1\n",
			errPart: "duplicate parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeQueryFile(t, dir, "todos.yaml", tt.content)

			_, err := newTestLoader().Load(path)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !errors.IsQueryFileError(err) {
				t.Fatalf("Expected QueryFileError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %q", tt.errPart, err.Error())
			}
		})
	}
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	users := writeQueryFile(t, dir, "users.yaml", "queries:\n  - name: a\n    sql: SELECT 1\n")
	todos := writeQueryFile(t, dir, "todos.yaml", "queries:\n  - name: b\n    sql: SELECT 2\n")

	files, err := newTestLoader().LoadAll([]string{users, todos})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	// Sorted by table name regardless of input order.
	if files[0].Table != "todos" || files[1].Table != "users" {
		t.Errorf("Expected [todos users], got [%s %s]", files[0].Table, files[1].Table)
	}
}
