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

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/frameworks"
	"github.com/ocomsoft/migratype/internal/naming"
	"github.com/ocomsoft/migratype/internal/queries"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/typemap"
	"github.com/ocomsoft/migratype/internal/types"
)

// ServiceOptions configures service emission.
type ServiceOptions struct {
	Framework types.Framework
	// Hooks enables framework binding generation for hand-written
	// queries (React hooks).
	Hooks bool
	// ModelImportBase is the module path from the services directory to
	// the models directory, e.g. "../models".
	ModelImportBase string
}

// ServiceEmitter renders one CRUD service class per live table, merges
// in hand-written queries from query files, and delegates the
// framework shell to a provider.
type ServiceEmitter struct {
	mapper   *typemap.Mapper
	reporter *report.Reporter
}

// NewServiceEmitter creates a service emitter.
func NewServiceEmitter(reporter *report.Reporter) *ServiceEmitter {
	return &ServiceEmitter{
		mapper:   typemap.New(),
		reporter: reporter,
	}
}

// Emit generates the shared runtime, one service per live table, and a
// standalone service for every query file that targets an unknown
// table. Query files naming the same table merge into one service; a
// query name defined twice for a table is an error. Query results
// carry no schema-derived typing; only CRUD does.
func (e *ServiceEmitter) Emit(model *types.SchemaModel, queryFiles []*queries.File, tableOrder []string, opts ServiceOptions) ([]Artifact, error) {
	provider, err := frameworks.NewProvider(opts.Framework)
	if err != nil {
		return nil, err
	}

	// A table's queries may be split across several files; fold them
	// into one File per table, keeping the incoming order.
	byTable := make(map[string]*queries.File, len(queryFiles))
	origin := make(map[string]string)
	var merged []*queries.File
	for _, qf := range queryFiles {
		key := strings.ToLower(qf.Table)
		for _, q := range qf.Queries {
			nameKey := key + "." + q.Name
			if previous, ok := origin[nameKey]; ok {
				return nil, errors.NewQueryFileError(qf.Path,
					fmt.Sprintf("query %q for table %q is already defined in %s", q.Name, qf.Table, previous))
			}
			origin[nameKey] = qf.Path
		}
		if existing, ok := byTable[key]; ok {
			existing.Queries = append(existing.Queries, qf.Queries...)
			continue
		}
		combined := *qf
		byTable[key] = &combined
		merged = append(merged, &combined)
	}

	artifacts := []Artifact{e.emitRuntime()}

	for _, name := range tableOrder {
		table, ok := model.Table(name)
		if !ok {
			continue
		}
		qf := byTable[strings.ToLower(table.Name)]
		delete(byTable, strings.ToLower(table.Name))
		artifacts = append(artifacts, e.emitService(table, qf, provider, opts))
	}

	// Leftover query files name tables that never made it into the
	// schema. Their statements are still emitted, with no typing.
	for _, qf := range merged {
		if _, orphaned := byTable[strings.ToLower(qf.Table)]; !orphaned {
			continue
		}
		for _, q := range qf.Queries {
			e.reporter.Warn(errors.OrphanQueryWarning{
				FilePath:  qf.Path,
				QueryName: q.Name,
				TableName: qf.Table,
			})
		}
		artifacts = append(artifacts, e.emitOrphanService(qf, provider, opts))
	}

	return artifacts, nil
}

func (e *ServiceEmitter) emitRuntime() Artifact {
	var sb strings.Builder
	sb.WriteString(fileHeader("service runtime"))
	sb.WriteString("/** Result of a statement execution. */\n")
	sb.WriteString("export interface RunResult {\n")
	sb.WriteString("  lastInsertId?: number;\n")
	sb.WriteString("  changes?: number;\n")
	sb.WriteString("}\n\n")
	sb.WriteString("/** Minimal SQL driver surface the generated services depend on. */\n")
	sb.WriteString("export interface SqlExecutor {\n")
	sb.WriteString("  query(sql: string, params?: unknown[]): Promise<Array<Record<string, unknown>>>;\n")
	sb.WriteString("  run(sql: string, params?: unknown[]): Promise<RunResult>;\n")
	sb.WriteString("}\n")
	return Artifact{Filename: "runtime.ts", Content: sb.String()}
}

func (e *ServiceEmitter) emitService(table *types.TableSchema, qf *queries.File, provider frameworks.Provider, opts ServiceOptions) Artifact {
	entity := naming.EntityName(table.Name)
	rowName := entity + "Row"
	className := naming.ServiceName(table.Name)
	stem := fileBase(table.Name)

	pk := pkColumns(table)
	autoInc := e.autoIncrementColumn(table, pk)

	info := &types.ServiceInfo{
		Table:        table.Name,
		ClassName:    className,
		Queries:      queryMethods(qf),
		HooksEnabled: opts.Hooks,
	}

	var sb strings.Builder
	sb.WriteString(fileHeader(fmt.Sprintf("service for table %s", table.Name)))

	for _, imp := range provider.Imports(info) {
		sb.WriteString(imp + "\n")
	}
	if len(provider.Imports(info)) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("import { SqlExecutor } from './runtime';\n")
	sb.WriteString(fmt.Sprintf("import { %s } from '%s';\n\n",
		strings.Join(modelImports(entity, rowName, autoInc != nil), ", "),
		modulePath(opts.ModelImportBase, stem)))

	sb.WriteString(fmt.Sprintf("/** Data access service for %s. */\n", table.Name))
	for _, dec := range provider.ClassDecorators(info) {
		sb.WriteString(dec + "\n")
	}
	sb.WriteString(fmt.Sprintf("export class %s {\n", className))
	sb.WriteString("  constructor(private readonly db: SqlExecutor) {}\n")

	if len(pk) > 0 {
		e.writeGetByID(&sb, table, entity, rowName, pk)
	}
	e.writeList(&sb, table, entity, rowName, pk)
	e.writeInsert(&sb, table, entity, autoInc)
	if len(pk) > 0 {
		e.writeUpdate(&sb, table, entity, pk)
		e.writeDelete(&sb, table, pk)
	}
	for _, q := range info.Queries {
		e.writeQueryMethod(&sb, qf, q)
	}

	sb.WriteString("}\n")

	if bindings := provider.GenerateBindings(info); bindings != "" {
		sb.WriteString(bindings)
	}

	return Artifact{Filename: stem + ".service.ts", Content: sb.String()}
}

// emitOrphanService renders a queries-only service for a table absent
// from the schema. There is no entity, so methods speak raw rows.
func (e *ServiceEmitter) emitOrphanService(qf *queries.File, provider frameworks.Provider, opts ServiceOptions) Artifact {
	className := naming.ServiceName(qf.Table)
	stem := fileBase(qf.Table)

	info := &types.ServiceInfo{
		Table:        qf.Table,
		ClassName:    className,
		Queries:      queryMethods(qf),
		HooksEnabled: opts.Hooks,
	}

	var sb strings.Builder
	sb.WriteString(fileHeader(fmt.Sprintf("service for table %s", qf.Table)))

	for _, imp := range provider.Imports(info) {
		sb.WriteString(imp + "\n")
	}
	if len(provider.Imports(info)) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("import { SqlExecutor } from './runtime';\n\n")

	sb.WriteString(fmt.Sprintf("/** Hand-written queries for %s; the table is not part of the generated schema. */\n", qf.Table))
	for _, dec := range provider.ClassDecorators(info) {
		sb.WriteString(dec + "\n")
	}
	sb.WriteString(fmt.Sprintf("export class %s {\n", className))
	sb.WriteString("  constructor(private readonly db: SqlExecutor) {}\n")
	for _, q := range info.Queries {
		e.writeQueryMethod(&sb, qf, q)
	}
	sb.WriteString("}\n")

	if bindings := provider.GenerateBindings(info); bindings != "" {
		sb.WriteString(bindings)
	}

	return Artifact{Filename: stem + ".service.ts", Content: sb.String()}
}

func (e *ServiceEmitter) writeGetByID(sb *strings.Builder, table *types.TableSchema, entity, rowName string, pk []types.ColumnDefinition) {
	params, args, where := e.keyClause(table, pk)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  /** Loads the %s row with the given key, or null. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("  async getById(%s): Promise<%s | null> {\n", strings.Join(params, ", "), entity))
	sb.WriteString("    const rows = await this.db.query(\n")
	sb.WriteString(fmt.Sprintf("      %s,\n", tsString(fmt.Sprintf("SELECT %s FROM %s WHERE %s", columnList(table), table.Name, where))))
	sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
	sb.WriteString("    );\n")
	sb.WriteString("    if (rows.length === 0) {\n")
	sb.WriteString("      return null;\n")
	sb.WriteString("    }\n")
	sb.WriteString(fmt.Sprintf("    return rowTo%s(rows[0] as unknown as %s);\n", entity, rowName))
	sb.WriteString("  }\n")
}

func (e *ServiceEmitter) writeList(sb *strings.Builder, table *types.TableSchema, entity, rowName string, pk []types.ColumnDefinition) {
	sql := fmt.Sprintf("SELECT %s FROM %s", columnList(table), table.Name)
	if len(pk) > 0 {
		names := make([]string, len(pk))
		for i, col := range pk {
			names[i] = col.Name
		}
		sql += " ORDER BY " + strings.Join(names, ", ")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  /** Loads every %s row. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("  async list(): Promise<%s[]> {\n", entity))
	sb.WriteString(fmt.Sprintf("    const rows = await this.db.query(%s);\n", tsString(sql)))
	sb.WriteString(fmt.Sprintf("    return rows.map((row) => rowTo%s(row as unknown as %s));\n", entity, rowName))
	sb.WriteString("  }\n")
}

func (e *ServiceEmitter) writeInsert(sb *strings.Builder, table *types.TableSchema, entity string, autoInc *types.ColumnDefinition) {
	receiver := lowerFirst(entity)

	cols := make([]string, 0, len(table.Columns))
	args := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if autoInc != nil && strings.EqualFold(col.Name, autoInc.Name) {
			continue
		}
		cols = append(cols, col.Name)
		args = append(args, rowAccess("row", col.Name))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table.Name, strings.Join(cols, ", "), placeholders)

	sb.WriteString("\n")
	if autoInc != nil {
		field := naming.FieldName(autoInc.Name)
		sb.WriteString(fmt.Sprintf("  /** Inserts a %s; %s is generated by the database and returned. */\n", table.Name, field))
		sb.WriteString(fmt.Sprintf("  async insert(entity: Omit<%s, %s>): Promise<number> {\n", entity, tsString(field)))
		sb.WriteString(fmt.Sprintf("    const row = %sToRow(new%s(entity));\n", receiver, entity))
		sb.WriteString("    const result = await this.db.run(\n")
		sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
		sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
		sb.WriteString("    );\n")
		sb.WriteString("    return result.lastInsertId ?? 0;\n")
		sb.WriteString("  }\n")
		return
	}

	sb.WriteString(fmt.Sprintf("  /** Inserts a %s row. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("  async insert(entity: %s): Promise<void> {\n", entity))
	sb.WriteString(fmt.Sprintf("    const row = %sToRow(entity);\n", receiver))
	sb.WriteString("    await this.db.run(\n")
	sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
	sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
	sb.WriteString("    );\n")
	sb.WriteString("  }\n")
}

func (e *ServiceEmitter) writeUpdate(sb *strings.Builder, table *types.TableSchema, entity string, pk []types.ColumnDefinition) {
	receiver := lowerFirst(entity)

	sets := make([]string, 0, len(table.Columns))
	args := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if isPKColumn(pk, col.Name) {
			continue
		}
		sets = append(sets, col.Name+" = ?")
		args = append(args, rowAccess("row", col.Name))
	}
	if len(sets) == 0 {
		// Key-only table, nothing to update.
		return
	}
	wheres := make([]string, 0, len(pk))
	for _, col := range pk {
		wheres = append(wheres, col.Name+" = ?")
		args = append(args, rowAccess("row", col.Name))
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table.Name, strings.Join(sets, ", "), strings.Join(wheres, " AND "))

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  /** Updates the %s row with the entity's key. Returns true when a row changed. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("  async update(entity: %s): Promise<boolean> {\n", entity))
	sb.WriteString(fmt.Sprintf("    const row = %sToRow(entity);\n", receiver))
	sb.WriteString("    const result = await this.db.run(\n")
	sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
	sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
	sb.WriteString("    );\n")
	sb.WriteString("    return (result.changes ?? 0) > 0;\n")
	sb.WriteString("  }\n")
}

func (e *ServiceEmitter) writeDelete(sb *strings.Builder, table *types.TableSchema, pk []types.ColumnDefinition) {
	params, args, where := e.keyClause(table, pk)
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", table.Name, where)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  /** Deletes the %s row with the given key. Returns true when a row was removed. */\n", table.Name))
	sb.WriteString(fmt.Sprintf("  async delete(%s): Promise<boolean> {\n", strings.Join(params, ", ")))
	sb.WriteString("    const result = await this.db.run(\n")
	sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
	sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
	sb.WriteString("    );\n")
	sb.WriteString("    return (result.changes ?? 0) > 0;\n")
	sb.WriteString("  }\n")
}

func (e *ServiceEmitter) writeQueryMethod(sb *strings.Builder, qf *queries.File, q types.QueryMethod) {
	params := make([]string, 0, len(q.Params))
	args := make([]string, 0, len(q.Params))
	for _, p := range q.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, p.Type))
		args = append(args, p.Name)
	}

	sql := querySQL(qf, q.Name)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  /** Hand-written query %s. */\n", q.Name))
	sb.WriteString(fmt.Sprintf("  async %s(%s): Promise<%s> {\n", q.Name, strings.Join(params, ", "), q.ResultType))

	switch {
	case q.Exec:
		if len(args) == 0 {
			sb.WriteString(fmt.Sprintf("    await this.db.run(%s);\n", tsString(sql)))
		} else {
			sb.WriteString("    await this.db.run(\n")
			sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
			sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
			sb.WriteString("    );\n")
		}
	case q.Single:
		if len(args) == 0 {
			sb.WriteString(fmt.Sprintf("    const rows = await this.db.query(%s);\n", tsString(sql)))
		} else {
			sb.WriteString("    const rows = await this.db.query(\n")
			sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
			sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
			sb.WriteString("    );\n")
		}
		sb.WriteString("    return rows.length > 0 ? rows[0] : null;\n")
	default:
		if len(args) == 0 {
			sb.WriteString(fmt.Sprintf("    return this.db.query(%s);\n", tsString(sql)))
		} else {
			sb.WriteString("    return this.db.query(\n")
			sb.WriteString(fmt.Sprintf("      %s,\n", tsString(sql)))
			sb.WriteString(fmt.Sprintf("      [%s]\n", strings.Join(args, ", ")))
			sb.WriteString("    );\n")
		}
	}
	sb.WriteString("  }\n")
}

// keyClause renders the method parameters, bind arguments and WHERE
// fragment for the primary key columns.
func (e *ServiceEmitter) keyClause(table *types.TableSchema, pk []types.ColumnDefinition) (params, args []string, where string) {
	wheres := make([]string, 0, len(pk))
	for _, col := range pk {
		desc := e.mapper.Map(table, col)
		field := naming.FieldName(col.Name)
		params = append(params, fmt.Sprintf("%s: %s", field, desc.TSType))
		args = append(args, field)
		wheres = append(wheres, col.Name+" = ?")
	}
	return params, args, strings.Join(wheres, " AND ")
}

// autoIncrementColumn returns the table's generated-on-insert column,
// if it has one.
func (e *ServiceEmitter) autoIncrementColumn(table *types.TableSchema, pk []types.ColumnDefinition) *types.ColumnDefinition {
	if len(pk) != 1 {
		return nil
	}
	desc := e.mapper.Map(table, pk[0])
	if !desc.AutoIncrement {
		return nil
	}
	col := pk[0]
	return &col
}

func pkColumns(table *types.TableSchema) []types.ColumnDefinition {
	var pk []types.ColumnDefinition
	for _, col := range table.Columns {
		if col.IsPrimaryKey {
			pk = append(pk, col)
		}
	}
	return pk
}

func isPKColumn(pk []types.ColumnDefinition, name string) bool {
	for _, col := range pk {
		if strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}

func columnList(table *types.TableSchema) string {
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
	}
	return strings.Join(names, ", ")
}

// modelImports lists the symbols the service pulls from the model file.
func modelImports(entity, rowName string, autoInc bool) []string {
	receiver := lowerFirst(entity)
	imports := []string{entity, rowName}
	if autoInc {
		imports = append(imports, "new"+entity)
	}
	imports = append(imports, "rowTo"+entity, receiver+"ToRow")
	return imports
}

// queryMethods converts a query file into framework-facing method
// descriptors. Hand-written SQL has no schema-derived shape, so the
// result types are untyped rows.
func queryMethods(qf *queries.File) []types.QueryMethod {
	if qf == nil {
		return nil
	}
	methods := make([]types.QueryMethod, 0, len(qf.Queries))
	for _, q := range qf.Queries {
		params := make([]types.QueryParam, 0, len(q.Params))
		for _, p := range q.Params {
			params = append(params, types.QueryParam{Name: p.Name, Type: p.Type})
		}
		m := types.QueryMethod{
			Name:   q.Name,
			Params: params,
			Single: q.Single(),
			Exec:   !q.Returns(),
		}
		switch {
		case m.Exec:
			m.ResultType = "void"
		case m.Single:
			m.ResultType = "Record<string, unknown> | null"
		default:
			m.ResultType = "Array<Record<string, unknown>>"
		}
		methods = append(methods, m)
	}
	return methods
}

func querySQL(qf *queries.File, name string) string {
	for _, q := range qf.Queries {
		if q.Name == name {
			return strings.TrimSpace(q.SQL)
		}
	}
	return ""
}
