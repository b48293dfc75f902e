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
package analyzer

import (
	"io"
	"strings"
	"testing"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/reducer"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/types"
)

func buildModel(t *testing.T, ops []types.Operation) *types.SchemaModel {
	t.Helper()
	model, err := reducer.New().Reduce(ops)
	if err != nil {
		t.Fatalf("Failed to reduce operations: %v", err)
	}
	return model
}

func createTable(file, name string, cols ...types.ColumnDefinition) *types.CreateTable {
	op := &types.CreateTable{Name: name, Columns: cols}
	op.File = file
	op.Sequence = 1
	return op
}

func TestAnalyzer_TableOrder(t *testing.T) {
	// comments references posts references users, but comments is
	// created before posts. The order must still put parents first.
	model := buildModel(t, []types.Operation{
		createTable("001_create_users.sql", "users",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true}),
		createTable("002_create_comments.sql", "comments",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "post_id", DataType: "INTEGER", RefTable: "posts", RefColumn: "id"}),
		createTable("003_create_posts.sql", "posts",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "user_id", DataType: "INTEGER", RefTable: "users", RefColumn: "id"}),
	})

	reporter := report.NewWithOutput(false, io.Discard)
	analysis, err := New(reporter).Analyze(model)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := strings.Join(analysis.TableOrder, ",")
	if got != "users,posts,comments" {
		t.Errorf("Expected users,posts,comments, got %s", got)
	}
	// Every reference resolves in the final schema, so no warnings.
	if reporter.HasWarnings() {
		t.Errorf("Expected no warnings, got %v", reporter.Warnings())
	}
}

func TestAnalyzer_CycleFallsBackToCreationOrder(t *testing.T) {
	model := buildModel(t, []types.Operation{
		createTable("001_a.sql", "a",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "b_id", DataType: "INTEGER", RefTable: "b"}),
		createTable("002_b.sql", "b",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "a_id", DataType: "INTEGER", RefTable: "a"}),
	})

	analysis, err := New(report.NewWithOutput(false, io.Discard)).Analyze(model)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := strings.Join(analysis.TableOrder, ",")
	if got != "a,b" {
		t.Errorf("Expected creation order a,b, got %s", got)
	}
}

func TestAnalyzer_UnknownTypeWarning(t *testing.T) {
	model := buildModel(t, []types.Operation{
		createTable("001_create_places.sql", "places",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "location", DataType: "GEOMETRY"}),
	})

	reporter := report.NewWithOutput(false, io.Discard)
	if _, err := New(reporter).Analyze(model); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	warnings := reporter.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	w, ok := warnings[0].(errors.UnknownTypeWarning)
	if !ok {
		t.Fatalf("Expected UnknownTypeWarning, got %T", warnings[0])
	}
	if w.SQLType != "GEOMETRY" || w.TableName != "places" || w.ColumnName != "location" {
		t.Errorf("Unexpected warning fields: %+v", w)
	}
	if w.FilePath != "001_create_places.sql" {
		t.Errorf("Expected provenance 001_create_places.sql, got %s", w.FilePath)
	}
}

func TestAnalyzer_UnknownTypeProvenanceFollowsAlter(t *testing.T) {
	alter := &types.AlterColumn{
		Table:      "places",
		ColumnName: "location",
		NewDefinition: types.ColumnDefinition{
			Name:     "location",
			DataType: "GEOGRAPHY",
		},
	}
	alter.File = "002_change_location.sql"
	alter.Sequence = 2

	model := buildModel(t, []types.Operation{
		createTable("001_create_places.sql", "places",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "location", DataType: "TEXT"}),
		alter,
	})

	reporter := report.NewWithOutput(false, io.Discard)
	if _, err := New(reporter).Analyze(model); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	warnings := reporter.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	w := warnings[0].(errors.UnknownTypeWarning)
	if w.FilePath != "002_change_location.sql" {
		t.Errorf("Expected provenance from the altering file, got %s", w.FilePath)
	}
}

func TestAnalyzer_DanglingReference(t *testing.T) {
	model := buildModel(t, []types.Operation{
		createTable("001_create_posts.sql", "posts",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "author_id", DataType: "INTEGER", RefTable: "authors", RefColumn: "id"}),
	})

	reporter := report.NewWithOutput(false, io.Discard)
	if _, err := New(reporter).Analyze(model); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	warnings := reporter.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	w, ok := warnings[0].(errors.DanglingReferenceWarning)
	if !ok {
		t.Fatalf("Expected DanglingReferenceWarning, got %T", warnings[0])
	}
	if w.RefTable != "authors" {
		t.Errorf("Expected authors, got %s", w.RefTable)
	}
}

func TestAnalyzer_DanglingReferenceColumn(t *testing.T) {
	model := buildModel(t, []types.Operation{
		createTable("001_create_users.sql", "users",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true}),
		createTable("002_create_posts.sql", "posts",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "user_id", DataType: "INTEGER", RefTable: "users", RefColumn: "uuid"}),
	})

	reporter := report.NewWithOutput(false, io.Discard)
	if _, err := New(reporter).Analyze(model); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	warnings := reporter.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	w := warnings[0].(errors.DanglingReferenceWarning)
	if w.RefTable != "users(uuid)" {
		t.Errorf("Expected users(uuid), got %s", w.RefTable)
	}
}

func TestAnalyzer_SelfReference(t *testing.T) {
	model := buildModel(t, []types.Operation{
		createTable("001_create_categories.sql", "categories",
			types.ColumnDefinition{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			types.ColumnDefinition{Name: "parent_id", DataType: "INTEGER", RefTable: "categories", RefColumn: "id"}),
	})

	analysis, err := New(report.NewWithOutput(false, io.Discard)).Analyze(model)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(analysis.TableOrder) != 1 || analysis.TableOrder[0] != "categories" {
		t.Errorf("Unexpected table order: %v", analysis.TableOrder)
	}
}
