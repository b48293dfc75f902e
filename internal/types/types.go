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
package types

import (
	"fmt"
	"strings"
)

// MigrationFile represents one ordered SQL migration input file
type MigrationFile struct {
	Sequence int
	Name     string
	Path     string
	SQL      string
}

// Provenance identifies the migration file and statement an operation
// was extracted from. Operation variants embed it so every operation
// can report where it came from.
type Provenance struct {
	File      string
	Sequence  int
	Statement int
}

// Origin returns the provenance itself; embedding Provenance gives each
// operation variant this accessor.
func (p Provenance) Origin() Provenance {
	return p
}

// OperationKind identifies the structural change an operation performs
type OperationKind string

const (
	OpCreateTable OperationKind = "create_table"
	OpAddColumn   OperationKind = "add_column"
	OpDropColumn  OperationKind = "drop_column"
	OpAlterColumn OperationKind = "alter_column"
	OpCreateIndex OperationKind = "create_index"
	OpDropTable   OperationKind = "drop_table"
)

// Operation represents a single structural change extracted from a
// migration file. The variant set is closed; the reducer and the
// history-consuming emitters switch exhaustively over Kind.
type Operation interface {
	Kind() OperationKind
	TableName() string
	Origin() Provenance
	Validate() error
}

// ColumnDefinition represents one column as declared in DDL
type ColumnDefinition struct {
	Name         string
	DataType     string
	Size         string
	IsNullable   bool
	IsPrimaryKey bool
	DefaultValue string
	RefTable     string
	RefColumn    string
}

// IndexDefinition represents a secondary index on a table
type IndexDefinition struct {
	Name     string
	Table    string
	Columns  []string
	IsUnique bool
}

// CreateTable represents a CREATE TABLE statement
type CreateTable struct {
	Provenance
	Name        string
	Columns     []ColumnDefinition
	Constraints []string
}

func (op *CreateTable) Kind() OperationKind { return OpCreateTable }
func (op *CreateTable) TableName() string   { return op.Name }

func (op *CreateTable) Validate() error {
	if op.Name == "" {
		return fmt.Errorf("create table requires a table name")
	}
	if len(op.Columns) == 0 {
		return fmt.Errorf("table %s must have at least one column", op.Name)
	}
	for _, col := range op.Columns {
		if col.Name == "" {
			return fmt.Errorf("table %s has a column without a name", op.Name)
		}
	}
	return nil
}

// AddColumn represents ALTER TABLE ... ADD COLUMN
type AddColumn struct {
	Provenance
	Table  string
	Column ColumnDefinition
}

func (op *AddColumn) Kind() OperationKind { return OpAddColumn }
func (op *AddColumn) TableName() string   { return op.Table }

func (op *AddColumn) Validate() error {
	if op.Table == "" {
		return fmt.Errorf("add column requires a table name")
	}
	if op.Column.Name == "" {
		return fmt.Errorf("add column on %s requires a column name", op.Table)
	}
	return nil
}

// DropColumn represents ALTER TABLE ... DROP COLUMN
type DropColumn struct {
	Provenance
	Table      string
	ColumnName string
}

func (op *DropColumn) Kind() OperationKind { return OpDropColumn }
func (op *DropColumn) TableName() string   { return op.Table }

func (op *DropColumn) Validate() error {
	if op.Table == "" {
		return fmt.Errorf("drop column requires a table name")
	}
	if op.ColumnName == "" {
		return fmt.Errorf("drop column on %s requires a column name", op.Table)
	}
	return nil
}

// AlterColumn represents ALTER TABLE ... ALTER/MODIFY COLUMN with the
// column's replacement definition
type AlterColumn struct {
	Provenance
	Table         string
	ColumnName    string
	NewDefinition ColumnDefinition
}

func (op *AlterColumn) Kind() OperationKind { return OpAlterColumn }
func (op *AlterColumn) TableName() string   { return op.Table }

func (op *AlterColumn) Validate() error {
	if op.Table == "" {
		return fmt.Errorf("alter column requires a table name")
	}
	if op.ColumnName == "" {
		return fmt.Errorf("alter column on %s requires a column name", op.Table)
	}
	return nil
}

// CreateIndex represents CREATE [UNIQUE] INDEX
type CreateIndex struct {
	Provenance
	Name     string
	Table    string
	Columns  []string
	IsUnique bool
}

func (op *CreateIndex) Kind() OperationKind { return OpCreateIndex }
func (op *CreateIndex) TableName() string   { return op.Table }

func (op *CreateIndex) Validate() error {
	if op.Table == "" {
		return fmt.Errorf("create index requires a table name")
	}
	if len(op.Columns) == 0 {
		return fmt.Errorf("index on %s must cover at least one column", op.Table)
	}
	return nil
}

// DropTable represents DROP TABLE
type DropTable struct {
	Provenance
	Name string
}

func (op *DropTable) Kind() OperationKind { return OpDropTable }
func (op *DropTable) TableName() string   { return op.Name }

func (op *DropTable) Validate() error {
	if op.Name == "" {
		return fmt.Errorf("drop table requires a table name")
	}
	return nil
}

// TableSchema represents the current shape of one table after folding
// migrations. Column order is append order: CREATE TABLE declaration
// order first, later AddColumns after, drops removed in place.
type TableSchema struct {
	Name        string
	Columns     []ColumnDefinition
	Indexes     []IndexDefinition
	Constraints []string
}

// Column returns the live column with the given name, matched
// case-insensitively.
func (t *TableSchema) Column(name string) (*ColumnDefinition, bool) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether the table currently has the named column.
func (t *TableSchema) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// PrimaryKeyColumns returns the names of primary key columns in
// declaration order.
func (t *TableSchema) PrimaryKeyColumns() []string {
	var keys []string
	for _, col := range t.Columns {
		if col.IsPrimaryKey {
			keys = append(keys, col.Name)
		}
	}
	return keys
}

// SchemaModel represents the cumulative schema after all migrations
// plus the raw operation log for emitters that need history. Tables are
// keyed case-insensitively; creation order is preserved for output.
type SchemaModel struct {
	Tables     map[string]*TableSchema
	Operations []Operation

	order []string
}

// NewSchemaModel creates an empty schema model
func NewSchemaModel() *SchemaModel {
	return &SchemaModel{
		Tables: make(map[string]*TableSchema),
	}
}

func tableKey(name string) string {
	return strings.ToLower(name)
}

// Table returns the schema for the named table, matched
// case-insensitively.
func (m *SchemaModel) Table(name string) (*TableSchema, bool) {
	t, ok := m.Tables[tableKey(name)]
	return t, ok
}

// HasTable reports whether the named table exists in the current schema.
func (m *SchemaModel) HasTable(name string) bool {
	_, ok := m.Tables[tableKey(name)]
	return ok
}

// AddTable registers a new table. The caller is responsible for
// checking HasTable first; a duplicate is a schema conflict.
func (m *SchemaModel) AddTable(t *TableSchema) {
	m.Tables[tableKey(t.Name)] = t
	m.order = append(m.order, t.Name)
}

// RemoveTable removes a table from the live schema.
func (m *SchemaModel) RemoveTable(name string) {
	key := tableKey(name)
	existing, ok := m.Tables[key]
	if !ok {
		return
	}
	delete(m.Tables, key)
	for i, n := range m.order {
		if tableKey(n) == tableKey(existing.Name) {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// TableNames returns the live table names in creation order.
func (m *SchemaModel) TableNames() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Framework represents the target frontend flavor for generated
// services
type Framework string

const (
	FrameworkPlain   Framework = "plain"
	FrameworkReact   Framework = "react"
	FrameworkAngular Framework = "angular"
)

// ParseFramework parses a string into a Framework
func ParseFramework(value string) (Framework, error) {
	switch Framework(strings.ToLower(value)) {
	case FrameworkPlain, FrameworkReact, FrameworkAngular:
		return Framework(strings.ToLower(value)), nil
	default:
		return "", fmt.Errorf("unsupported framework: %s (supported: plain, react, angular)", value)
	}
}

// String returns the framework name
func (f Framework) String() string {
	return string(f)
}

// ServiceInfo describes one generated service class to a framework
// provider.
type ServiceInfo struct {
	Table        string
	ClassName    string
	Queries      []QueryMethod
	HooksEnabled bool
}

// QueryMethod is one query-backed method on a generated service.
type QueryMethod struct {
	Name       string
	Params     []QueryParam
	ResultType string
	Single     bool
	Exec       bool
}

// QueryParam is a named, typed parameter of a query method.
type QueryParam struct {
	Name string
	Type string
}
