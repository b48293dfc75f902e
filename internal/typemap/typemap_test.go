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
package typemap

import (
	"testing"

	"github.com/ocomsoft/migratype/internal/types"
)

func TestMapper_MapColumn(t *testing.T) {
	tests := []struct {
		name     string
		column   types.ColumnDefinition
		expected TypeDescriptor
	}{
		{
			name:     "integer",
			column:   types.ColumnDefinition{Name: "count", DataType: "INTEGER"},
			expected: TypeDescriptor{TSType: "number", RowType: "number"},
		},
		{
			name:     "bigint is still a number",
			column:   types.ColumnDefinition{Name: "total", DataType: "BIGINT"},
			expected: TypeDescriptor{TSType: "number", RowType: "number"},
		},
		{
			name:     "varchar",
			column:   types.ColumnDefinition{Name: "email", DataType: "VARCHAR", Size: "255"},
			expected: TypeDescriptor{TSType: "string", RowType: "string"},
		},
		{
			name:     "decimal",
			column:   types.ColumnDefinition{Name: "price", DataType: "DECIMAL", Size: "10,2"},
			expected: TypeDescriptor{TSType: "number", RowType: "number"},
		},
		{
			name:     "boolean stored as integer",
			column:   types.ColumnDefinition{Name: "done", DataType: "BOOLEAN"},
			expected: TypeDescriptor{TSType: "boolean", RowType: "number", IsBoolean: true},
		},
		{
			name:     "blob",
			column:   types.ColumnDefinition{Name: "payload", DataType: "BLOB"},
			expected: TypeDescriptor{TSType: "Uint8Array", RowType: "number[]", IsBlob: true},
		},
		{
			name:     "timestamp carried as text",
			column:   types.ColumnDefinition{Name: "created_at", DataType: "TIMESTAMP"},
			expected: TypeDescriptor{TSType: "string", RowType: "string"},
		},
		{
			name:     "nullable text",
			column:   types.ColumnDefinition{Name: "note", DataType: "TEXT", IsNullable: true},
			expected: TypeDescriptor{TSType: "string", RowType: "string", Nullable: true},
		},
		{
			name:     "reference column",
			column:   types.ColumnDefinition{Name: "user_id", DataType: "INTEGER", RefTable: "users"},
			expected: TypeDescriptor{TSType: "number", RowType: "number", RefTable: "users"},
		},
		{
			name:     "unknown type degrades to opaque",
			column:   types.ColumnDefinition{Name: "area", DataType: "GEOMETRY"},
			expected: TypeDescriptor{TSType: "unknown", RowType: "unknown", IsUnknown: true},
		},
	}

	mapper := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := mapper.MapColumn(tt.column)
			if desc != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, desc)
			}
		})
	}
}

func TestMapper_Totality(t *testing.T) {
	// The mapper never rejects a token; anything unrecognized becomes
	// the opaque descriptor.
	mapper := New()
	for _, token := range []string{"GEOMETRY", "HSTORE", "CIDR", "", "   ", "POINT(4326)"} {
		desc := mapper.MapColumn(types.ColumnDefinition{Name: "x", DataType: token})
		if !desc.IsUnknown {
			t.Errorf("Token %q should map to the opaque descriptor, got %+v", token, desc)
		}
		if desc.TSType != "unknown" {
			t.Errorf("Token %q should render as unknown, got %s", token, desc.TSType)
		}
	}
}

func TestMapper_AutoIncrement(t *testing.T) {
	mapper := New()

	table := &types.TableSchema{
		Name: "todos",
		Columns: []types.ColumnDefinition{
			{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "title", DataType: "TEXT"},
		},
	}

	desc := mapper.Map(table, table.Columns[0])
	if !desc.AutoIncrement {
		t.Error("Single integer primary key should be auto-increment")
	}

	// A composite key is never auto-increment.
	composite := &types.TableSchema{
		Name: "memberships",
		Columns: []types.ColumnDefinition{
			{Name: "user_id", DataType: "INTEGER", IsPrimaryKey: true},
			{Name: "group_id", DataType: "INTEGER", IsPrimaryKey: true},
		},
	}
	desc = mapper.Map(composite, composite.Columns[0])
	if desc.AutoIncrement {
		t.Error("Composite primary key columns are not auto-increment")
	}

	// A text primary key is never auto-increment.
	textPK := &types.TableSchema{
		Name: "settings",
		Columns: []types.ColumnDefinition{
			{Name: "key", DataType: "TEXT", IsPrimaryKey: true},
		},
	}
	desc = mapper.Map(textPK, textPK.Columns[0])
	if desc.AutoIncrement {
		t.Error("Text primary key is not auto-increment")
	}
}

func TestMapper_TSDefault(t *testing.T) {
	mapper := New()

	tests := []struct {
		name     string
		column   types.ColumnDefinition
		expected string
		ok       bool
	}{
		{
			name:     "boolean zero",
			column:   types.ColumnDefinition{DataType: "BOOLEAN", DefaultValue: "0"},
			expected: "false",
			ok:       true,
		},
		{
			name:     "boolean true keyword",
			column:   types.ColumnDefinition{DataType: "BOOL", DefaultValue: "true"},
			expected: "true",
			ok:       true,
		},
		{
			name:     "numeric literal",
			column:   types.ColumnDefinition{DataType: "INTEGER", DefaultValue: "42"},
			expected: "42",
			ok:       true,
		},
		{
			name:     "quoted string",
			column:   types.ColumnDefinition{DataType: "TEXT", DefaultValue: "'member'"},
			expected: "'member'",
			ok:       true,
		},
		{
			name:     "escaped quote",
			column:   types.ColumnDefinition{DataType: "TEXT", DefaultValue: "'it''s'"},
			expected: "'it\\'s'",
			ok:       true,
		},
		{
			name:   "function call has no literal",
			column: types.ColumnDefinition{DataType: "TIMESTAMP", DefaultValue: "NOW()"},
			ok:     false,
		},
		{
			name:   "no default",
			column: types.ColumnDefinition{DataType: "TEXT"},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := mapper.MapColumn(tt.column)
			got, ok := mapper.TSDefault(tt.column, desc)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestMapper_TSZero(t *testing.T) {
	mapper := New()

	tests := []struct {
		desc     TypeDescriptor
		expected string
	}{
		{TypeDescriptor{TSType: "number"}, "0"},
		{TypeDescriptor{TSType: "string"}, "''"},
		{TypeDescriptor{TSType: "boolean", IsBoolean: true}, "false"},
		{TypeDescriptor{TSType: "Uint8Array", IsBlob: true}, "new Uint8Array()"},
		{TypeDescriptor{TSType: "string", Nullable: true}, "null"},
		{TypeDescriptor{TSType: "unknown", IsUnknown: true}, "null"},
	}

	for _, tt := range tests {
		if got := mapper.TSZero(tt.desc); got != tt.expected {
			t.Errorf("TSZero(%+v): expected %s, got %s", tt.desc, tt.expected, got)
		}
	}
}
