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
	"strconv"
	"strings"

	"github.com/ocomsoft/migratype/internal/types"
)

// TypeDescriptor describes how one SQL column renders in TypeScript.
// TSType is the entity-side type; RowType is the raw row representation
// the database hands back. They differ at the boolean (stored 0/1) and
// blob (stored byte array) boundaries.
type TypeDescriptor struct {
	TSType        string
	RowType       string
	Nullable      bool
	IsBoolean     bool
	IsBlob        bool
	IsUnknown     bool
	RefTable      string
	AutoIncrement bool
}

// Mapper converts SQL column types into TypeScript type descriptors.
// Mapping is total: an unrecognized type token degrades to the opaque
// descriptor instead of failing.
type Mapper struct{}

func New() *Mapper {
	return &Mapper{}
}

var integerTypes = map[string]bool{
	"INTEGER": true, "INT": true, "BIGINT": true, "SMALLINT": true,
	"TINYINT": true, "MEDIUMINT": true, "SERIAL": true, "BIGSERIAL": true,
}

var stringTypes = map[string]bool{
	"TEXT": true, "VARCHAR": true, "CHAR": true, "CHARACTER": true,
	"NVARCHAR": true, "NCHAR": true, "CLOB": true, "UUID": true,
	"JSON": true, "JSONB": true,
}

var floatTypes = map[string]bool{
	"REAL": true, "FLOAT": true, "DOUBLE": true, "NUMERIC": true, "DECIMAL": true,
}

var blobTypes = map[string]bool{
	"BLOB": true, "BYTEA": true, "BINARY": true, "VARBINARY": true,
}

var booleanTypes = map[string]bool{
	"BOOLEAN": true, "BOOL": true,
}

var timeTypes = map[string]bool{
	"DATE": true, "TIME": true, "DATETIME": true, "TIMESTAMP": true, "TIMESTAMPTZ": true,
}

// Known reports whether a SQL type token has a non-opaque mapping.
func Known(token string) bool {
	t := strings.ToUpper(strings.TrimSpace(token))
	return integerTypes[t] || stringTypes[t] || floatTypes[t] ||
		blobTypes[t] || booleanTypes[t] || timeTypes[t]
}

// Map converts one column to its type descriptor. The table provides
// primary key context: a lone integer primary key is treated as
// generated on insert.
func (m *Mapper) Map(table *types.TableSchema, col types.ColumnDefinition) TypeDescriptor {
	desc := m.MapColumn(col)

	if col.IsPrimaryKey && isIntegerAffinity(col.DataType) && table != nil {
		if len(table.PrimaryKeyColumns()) == 1 {
			desc.AutoIncrement = true
		}
	}

	return desc
}

// MapColumn converts a column without table context. AutoIncrement is
// never set here because it depends on the table's primary key shape.
func (m *Mapper) MapColumn(col types.ColumnDefinition) TypeDescriptor {
	desc := TypeDescriptor{
		Nullable: col.IsNullable,
		RefTable: col.RefTable,
	}

	token := strings.ToUpper(strings.TrimSpace(col.DataType))
	switch {
	case integerTypes[token]:
		desc.TSType = "number"
		desc.RowType = "number"
	case stringTypes[token]:
		desc.TSType = "string"
		desc.RowType = "string"
	case floatTypes[token]:
		desc.TSType = "number"
		desc.RowType = "number"
	case booleanTypes[token]:
		// Stored as 0/1; the row boundary converts.
		desc.TSType = "boolean"
		desc.RowType = "number"
		desc.IsBoolean = true
	case blobTypes[token]:
		desc.TSType = "Uint8Array"
		desc.RowType = "number[]"
		desc.IsBlob = true
	case timeTypes[token]:
		// Carried as ISO 8601 text end to end.
		desc.TSType = "string"
		desc.RowType = "string"
	default:
		desc.TSType = "unknown"
		desc.RowType = "unknown"
		desc.IsUnknown = true
	}

	return desc
}

// TSDefault renders the column's SQL default as a TypeScript literal
// when that is possible. SQL expressions such as NOW() have no literal
// equivalent and report false.
func (m *Mapper) TSDefault(col types.ColumnDefinition, desc TypeDescriptor) (string, bool) {
	raw := strings.TrimSpace(col.DefaultValue)
	if raw == "" {
		return "", false
	}
	if strings.EqualFold(raw, "NULL") {
		return "null", desc.Nullable
	}

	switch {
	case desc.IsBoolean:
		switch strings.ToLower(raw) {
		case "0", "false":
			return "false", true
		case "1", "true":
			return "true", true
		}
	case desc.TSType == "number":
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return raw, true
		}
	case desc.TSType == "string":
		if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
			inner := strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
			return "'" + strings.ReplaceAll(inner, "'", "\\'") + "'", true
		}
	}

	return "", false
}

// TSZero returns the TypeScript zero value for a descriptor, used when
// a column has no renderable default.
func (m *Mapper) TSZero(desc TypeDescriptor) string {
	if desc.Nullable {
		return "null"
	}
	switch {
	case desc.IsBoolean:
		return "false"
	case desc.IsBlob:
		return "new Uint8Array()"
	case desc.TSType == "number":
		return "0"
	case desc.TSType == "string":
		return "''"
	default:
		return "null"
	}
}

func isIntegerAffinity(dataType string) bool {
	return integerTypes[strings.ToUpper(strings.TrimSpace(dataType))]
}
