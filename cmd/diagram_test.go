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
	"strings"
	"testing"

	"github.com/ocomsoft/migratype/internal/types"
)

func TestGenerateMarkdownDocumentation(t *testing.T) {
	markdown := generateMarkdownDocumentation(projectModel(), []string{"projects", "todos"}, 3)

	expected := []string{
		"# Database Schema Documentation",
		"**Tables:** 2",
		"**Migrations:** 3",
		"## Entity Relationship Diagram",
		"```mermaid",
		"erDiagram",
		"    PROJECTS {",
		"    TODOS {",
		"        int id \"PK\"",
		"        string title \"NOT_NULL\"",
		"        int project_id \"FK\"",
		"    PROJECTS ||--o{ TODOS : \"project_id\"",
		"## Schema Overview",
		"| **Total Tables** | 2 |",
		"| **Foreign Key References** | 1 |",
		"### Todos Table",
		"| `project_id` | INTEGER | NULLABLE | - | `projects(id)` |",
		"| `idx_todos_title` | `title` | Unique Index |",
		"## Relationships",
		"| `todos` | `project_id` | `projects` |",
	}
	for _, want := range expected {
		if !strings.Contains(markdown, want) {
			t.Errorf("Expected documentation to contain %q", want)
		}
	}
}

func TestGenerateMarkdownDocumentation_NoRelationships(t *testing.T) {
	model := types.NewSchemaModel()
	model.AddTable(&types.TableSchema{
		Name: "logs",
		Columns: []types.ColumnDefinition{
			{Name: "message", DataType: "TEXT", IsNullable: true},
		},
	})

	markdown := generateMarkdownDocumentation(model, []string{"logs"}, 1)

	if !strings.Contains(markdown, "*No foreign key references defined in the schema.*") {
		t.Error("Expected placeholder for schemas without references")
	}
	if strings.Contains(markdown, "||--o{") {
		t.Error("Expected no relationship lines without references")
	}
}

func TestMermaidType(t *testing.T) {
	tests := []struct {
		dataType string
		expected string
	}{
		{"INTEGER", "int"},
		{"bigint", "int"},
		{"VARCHAR", "string"},
		{"BOOLEAN", "boolean"},
		{"TIMESTAMP", "datetime"},
		{"REAL", "decimal"},
		{"BLOB", "blob"},
		{"GEOMETRY", "string"},
	}

	for _, tt := range tests {
		if got := mermaidType(tt.dataType); got != tt.expected {
			t.Errorf("mermaidType(%q) = %q, expected %q", tt.dataType, got, tt.expected)
		}
	}
}

func TestMermaidConstraints(t *testing.T) {
	tests := []struct {
		name     string
		col      types.ColumnDefinition
		expected string
	}{
		{"primary key", types.ColumnDefinition{IsPrimaryKey: true}, "\"PK\""},
		{"reference", types.ColumnDefinition{IsNullable: true, RefTable: "users"}, "\"FK\""},
		{"not null reference", types.ColumnDefinition{RefTable: "users"}, "\"FK,NOT_NULL\""},
		{"nullable plain", types.ColumnDefinition{IsNullable: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mermaidConstraints(tt.col); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
