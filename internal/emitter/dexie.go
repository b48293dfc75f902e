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
	"strings"

	"github.com/ocomsoft/migratype/internal/naming"
	"github.com/ocomsoft/migratype/internal/reducer"
	"github.com/ocomsoft/migratype/internal/typemap"
	"github.com/ocomsoft/migratype/internal/types"
)

// DexieOptions configures the mirror-store output.
type DexieOptions struct {
	DatabaseName    string
	ClassName       string
	ModelImportBase string
}

// DexieEmitter renders a Dexie (IndexedDB) schema that mirrors the SQL
// migration history: every operation in the ordered log becomes one
// version stage, so a browser store replaying versions walks the same
// structural history as the SQL side. Drops are staged explicitly.
type DexieEmitter struct {
	mapper *typemap.Mapper
}

// NewDexieEmitter creates a Dexie emitter.
func NewDexieEmitter() *DexieEmitter {
	return &DexieEmitter{
		mapper: typemap.New(),
	}
}

// Emit renders dexie.ts. ops is the full ordered operation log, model
// the final reduced schema, tableOrder the analyzer's ordering for the
// class typings block.
func (e *DexieEmitter) Emit(ops []types.Operation, model *types.SchemaModel, tableOrder []string, opts DexieOptions) (Artifact, error) {
	database := opts.DatabaseName
	if database == "" {
		database = "app"
	}
	className := opts.ClassName
	if className == "" {
		className = "AppDatabase"
	}

	var sb strings.Builder
	sb.WriteString(fileHeader("Dexie schema mirroring the SQL migration history"))
	sb.WriteString("import Dexie, { Table } from 'dexie';\n\n")

	for _, name := range tableOrder {
		if _, ok := model.Table(name); !ok {
			continue
		}
		entity := naming.EntityName(name)
		sb.WriteString(fmt.Sprintf("import { %sRow } from '%s';\n", entity, modulePath(opts.ModelImportBase, fileBase(name))))
	}
	if len(tableOrder) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("export class %s extends Dexie {\n", className))

	for _, name := range tableOrder {
		table, ok := model.Table(name)
		if !ok {
			continue
		}
		entity := naming.EntityName(table.Name)
		sb.WriteString(fmt.Sprintf("  %s!: Table<%sRow, %s>;\n",
			naming.PropertyName(table.Name), entity, e.keyType(table)))
	}

	sb.WriteString("\n  constructor() {\n")
	sb.WriteString(fmt.Sprintf("    super(%s);\n", tsString(database)))

	if err := e.writeStages(&sb, ops); err != nil {
		return Artifact{}, err
	}

	sb.WriteString("  }\n")
	sb.WriteString("}\n\n")
	sb.WriteString(fmt.Sprintf("export const db = new %s();\n", className))

	return Artifact{Filename: "dexie.ts", Content: sb.String()}, nil
}

// writeStages replays the operation log and emits one version per
// operation. Each stage restates the affected table's store string;
// DropTable stages null so consumers delete the store.
func (e *DexieEmitter) writeStages(sb *strings.Builder, ops []types.Operation) error {
	replay := types.NewSchemaModel()
	red := reducer.New()

	for i, op := range ops {
		if err := red.Apply(replay, op); err != nil {
			return err
		}
		version := i + 1

		var stage string
		if op.Kind() == types.OpDropTable {
			stage = fmt.Sprintf("%s: null", naming.PropertyName(op.TableName()))
		} else {
			table, ok := replay.Table(op.TableName())
			if !ok {
				continue
			}
			stage = fmt.Sprintf("%s: %s", naming.PropertyName(table.Name), tsString(e.storeString(table)))
		}

		sb.WriteString(fmt.Sprintf("    this.version(%d).stores({\n", version))
		sb.WriteString(fmt.Sprintf("      %s,\n", stage))
		sb.WriteString("    });\n")
	}

	return nil
}

// storeString renders the Dexie store declaration for a table: the
// primary key first, then every live index.
func (e *DexieEmitter) storeString(table *types.TableSchema) string {
	pk := pkColumns(table)
	parts := []string{e.keyPath(table, pk)}

	for _, idx := range table.Indexes {
		if len(idx.Columns) == 1 {
			col := idx.Columns[0]
			if len(pk) == 1 && strings.EqualFold(col, pk[0].Name) {
				continue
			}
			if idx.IsUnique {
				parts = append(parts, "&"+col)
			} else {
				parts = append(parts, col)
			}
			continue
		}
		compound := "[" + strings.Join(idx.Columns, "+") + "]"
		if idx.IsUnique {
			compound = "&" + compound
		}
		parts = append(parts, compound)
	}

	return strings.Join(parts, ", ")
}

// keyPath renders the primary key part of a store string. Tables
// without a declared key get a hidden auto-incremented one.
func (e *DexieEmitter) keyPath(table *types.TableSchema, pk []types.ColumnDefinition) string {
	switch len(pk) {
	case 0:
		return "++"
	case 1:
		desc := e.mapper.Map(table, pk[0])
		if desc.AutoIncrement {
			return "++" + pk[0].Name
		}
		return pk[0].Name
	default:
		names := make([]string, len(pk))
		for i, col := range pk {
			names[i] = col.Name
		}
		return "[" + strings.Join(names, "+") + "]"
	}
}

// keyType renders the TypeScript key type for the Table typing.
func (e *DexieEmitter) keyType(table *types.TableSchema) string {
	pk := pkColumns(table)
	switch len(pk) {
	case 0:
		return "number"
	case 1:
		return e.mapper.Map(table, pk[0]).RowType
	default:
		rowTypes := make([]string, len(pk))
		for i, col := range pk {
			rowTypes[i] = e.mapper.Map(table, col).RowType
		}
		return "[" + strings.Join(rowTypes, ", ") + "]"
	}
}
