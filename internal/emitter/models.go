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
package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ocomsoft/migratype/internal/naming"
	"github.com/ocomsoft/migratype/internal/typemap"
	"github.com/ocomsoft/migratype/internal/types"
)

// ModelEmitter renders one TypeScript model file per live table: the
// raw row interface, the entity interface, a factory with column
// defaults, and converters across the row/entity boundary.
type ModelEmitter struct {
	mapper *typemap.Mapper
}

// NewModelEmitter creates a model emitter.
func NewModelEmitter() *ModelEmitter {
	return &ModelEmitter{
		mapper: typemap.New(),
	}
}

// modelField pairs a live column with its type descriptor and derived
// TypeScript names.
type modelField struct {
	col  types.ColumnDefinition
	desc typemap.TypeDescriptor
	name string // entity field name, camelCase
	prop string // row property, quoted if needed
}

func (e *ModelEmitter) fields(table *types.TableSchema) []modelField {
	fields := make([]modelField, 0, len(table.Columns))
	for _, col := range table.Columns {
		fields = append(fields, modelField{
			col:  col,
			desc: e.mapper.Map(table, col),
			name: naming.FieldName(col.Name),
			prop: naming.PropertyName(col.Name),
		})
	}
	return fields
}

// Emit generates the per-table model files plus the index barrel.
// tableOrder decides generation order; file contents depend only on
// each table's schema, so output is byte-identical for identical input.
func (e *ModelEmitter) Emit(model *types.SchemaModel, tableOrder []string) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(tableOrder)+1)
	for _, name := range tableOrder {
		table, ok := model.Table(name)
		if !ok {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Filename: fileBase(table.Name) + ".ts",
			Content:  e.EmitTable(table),
		})
	}
	if len(artifacts) > 0 {
		artifacts = append(artifacts, e.emitIndex(model))
	}
	return artifacts, nil
}

// EmitTable renders the model source for a single table.
func (e *ModelEmitter) EmitTable(table *types.TableSchema) string {
	var sb strings.Builder

	entity := naming.EntityName(table.Name)
	rowName := entity + "Row"
	constPrefix := strings.ToUpper(naming.Snake(table.Name))
	fields := e.fields(table)

	sb.WriteString(fileHeader(fmt.Sprintf("TypeScript model for table %s", table.Name)))

	e.writeRowInterface(&sb, rowName, table, fields)
	sb.WriteString("\n")
	e.writeEntityInterface(&sb, entity, table, fields)
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("export const %s_TABLE = %s;\n\n", constPrefix, tsString(table.Name)))
	sb.WriteString(fmt.Sprintf("export const %s_COLUMNS = [", constPrefix))
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tsString(f.col.Name))
	}
	sb.WriteString("] as const;\n\n")

	e.writeFactory(&sb, entity, fields)
	sb.WriteString("\n")
	e.writeRowToEntity(&sb, entity, rowName, table, fields)
	sb.WriteString("\n")
	e.writeEntityToRow(&sb, entity, rowName, table, fields)

	return sb.String()
}

func (e *ModelEmitter) writeRowInterface(sb *strings.Builder, rowName string, table *types.TableSchema, fields []modelField) {
	sb.WriteString(fmt.Sprintf("/** Raw database row for %s. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("export interface %s {\n", rowName))
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("  %s: %s;\n", f.prop, unionType(f.desc.RowType, f.desc.Nullable)))
	}
	sb.WriteString("}\n")
}

func (e *ModelEmitter) writeEntityInterface(sb *strings.Builder, entity string, table *types.TableSchema, fields []modelField) {
	sb.WriteString(fmt.Sprintf("/** Application-side entity for %s. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("export interface %s {\n", entity))
	for _, f := range fields {
		if doc := fieldDoc(f); doc != "" {
			sb.WriteString(fmt.Sprintf("  /** %s */\n", doc))
		}
		sb.WriteString(fmt.Sprintf("  %s: %s;\n", f.name, unionType(f.desc.TSType, f.desc.Nullable)))
	}
	sb.WriteString("}\n")
}

func (e *ModelEmitter) writeFactory(sb *strings.Builder, entity string, fields []modelField) {
	sb.WriteString(fmt.Sprintf("/** Creates a %s with column defaults applied. */\n", entity))
	sb.WriteString(fmt.Sprintf("export function new%s(overrides: Partial<%s> = {}): %s {\n", entity, entity, entity))
	sb.WriteString("  return {\n")
	for _, f := range fields {
		value, ok := e.mapper.TSDefault(f.col, f.desc)
		if !ok {
			value = e.mapper.TSZero(f.desc)
		}
		sb.WriteString(fmt.Sprintf("    %s: %s,\n", f.name, value))
	}
	sb.WriteString("    ...overrides,\n")
	sb.WriteString("  };\n")
	sb.WriteString("}\n")
}

func (e *ModelEmitter) writeRowToEntity(sb *strings.Builder, entity, rowName string, table *types.TableSchema, fields []modelField) {
	sb.WriteString(fmt.Sprintf("/** Converts a raw %s row into a %s. */\n", table.Name, entity))
	sb.WriteString(fmt.Sprintf("export function rowTo%s(row: %s): %s {\n", entity, rowName, entity))
	sb.WriteString("  return {\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("    %s: %s,\n", f.name, rowToEntityExpr(f)))
	}
	sb.WriteString("  };\n")
	sb.WriteString("}\n")
}

func (e *ModelEmitter) writeEntityToRow(sb *strings.Builder, entity, rowName string, table *types.TableSchema, fields []modelField) {
	receiver := lowerFirst(entity)
	sb.WriteString(fmt.Sprintf("/** Converts a %s back into a raw %s row. */\n", entity, table.Name))
	sb.WriteString(fmt.Sprintf("export function %sToRow(%s: %s): %s {\n", receiver, receiver, entity, rowName))
	sb.WriteString("  return {\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("    %s: %s,\n", f.prop, entityToRowExpr(receiver, f)))
	}
	sb.WriteString("  };\n")
	sb.WriteString("}\n")
}

// emitIndex renders the barrel re-exporting every model in alphabetical
// order.
func (e *ModelEmitter) emitIndex(model *types.SchemaModel) Artifact {
	stems := make([]string, 0, len(model.TableNames()))
	for _, name := range model.TableNames() {
		stems = append(stems, fileBase(name))
	}
	sort.Strings(stems)

	var sb strings.Builder
	sb.WriteString(fileHeader("TypeScript models barrel"))
	for _, stem := range stems {
		sb.WriteString(fmt.Sprintf("export * from './%s';\n", stem))
	}

	return Artifact{Filename: "index.ts", Content: sb.String()}
}

// rowToEntityExpr renders the conversion of one row property into its
// entity field. Booleans widen 0/1 to false/true and blobs wrap the
// stored byte array.
func rowToEntityExpr(f modelField) string {
	access := rowAccess("row", f.col.Name)
	switch {
	case f.desc.IsBoolean && f.desc.Nullable:
		return fmt.Sprintf("%s === null ? null : %s !== 0", access, access)
	case f.desc.IsBoolean:
		return access + " !== 0"
	case f.desc.IsBlob && f.desc.Nullable:
		return fmt.Sprintf("%s === null ? null : new Uint8Array(%s)", access, access)
	case f.desc.IsBlob:
		return fmt.Sprintf("new Uint8Array(%s)", access)
	default:
		return access
	}
}

// entityToRowExpr renders the reverse conversion.
func entityToRowExpr(receiver string, f modelField) string {
	access := receiver + "." + f.name
	switch {
	case f.desc.IsBoolean && f.desc.Nullable:
		return fmt.Sprintf("%s === null ? null : (%s ? 1 : 0)", access, access)
	case f.desc.IsBoolean:
		return fmt.Sprintf("%s ? 1 : 0", access)
	case f.desc.IsBlob && f.desc.Nullable:
		return fmt.Sprintf("%s === null ? null : Array.from(%s)", access, access)
	case f.desc.IsBlob:
		return fmt.Sprintf("Array.from(%s)", access)
	default:
		return access
	}
}

// fieldDoc renders the informational JSDoc line for a field, if any.
func fieldDoc(f modelField) string {
	var notes []string
	if f.desc.AutoIncrement {
		notes = append(notes, "Generated on insert.")
	}
	if f.desc.RefTable != "" {
		ref := f.desc.RefTable
		if f.col.RefColumn != "" {
			ref = fmt.Sprintf("%s(%s)", ref, f.col.RefColumn)
		}
		notes = append(notes, fmt.Sprintf("References %s.", ref))
	}
	if f.desc.IsUnknown {
		notes = append(notes, fmt.Sprintf("SQL type %s has no known mapping.", f.col.DataType))
	}
	return strings.Join(notes, " ")
}

func unionType(base string, nullable bool) string {
	if nullable {
		return base + " | null"
	}
	return base
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
