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
package reducer

import (
	"fmt"
	"strings"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/types"
)

// Reducer folds an ordered operation sequence into the cumulative
// schema. Migration-sequence order is the single authoritative ordering
// for the whole pipeline; every downstream consumer trusts the order of
// the operations handed in here.
type Reducer struct{}

func New() *Reducer {
	return &Reducer{}
}

// Reduce applies every operation in order and returns the resulting
// schema model, including the full operation log for history-consuming
// emitters. Migrations are append-only history, so any operation that
// is inconsistent with the cumulative state is a conflict, not a
// repair opportunity.
func (r *Reducer) Reduce(ops []types.Operation) (*types.SchemaModel, error) {
	model := types.NewSchemaModel()

	for _, op := range ops {
		if err := r.Apply(model, op); err != nil {
			return nil, err
		}
	}

	return model, nil
}

// Apply folds a single operation into the model and appends it to the
// operation log. The Dexie emitter uses this to step through schema
// states one operation at a time.
func (r *Reducer) Apply(model *types.SchemaModel, op types.Operation) error {
	var err error
	switch o := op.(type) {
	case *types.CreateTable:
		err = r.applyCreateTable(model, o)
	case *types.DropTable:
		err = r.applyDropTable(model, o)
	case *types.AddColumn:
		err = r.applyAddColumn(model, o)
	case *types.DropColumn:
		err = r.applyDropColumn(model, o)
	case *types.AlterColumn:
		err = r.applyAlterColumn(model, o)
	case *types.CreateIndex:
		err = r.applyCreateIndex(model, o)
	default:
		err = conflict(op, fmt.Sprintf("unknown operation kind %s", op.Kind()))
	}
	if err != nil {
		return err
	}

	model.Operations = append(model.Operations, op)
	return nil
}

func (r *Reducer) applyCreateTable(model *types.SchemaModel, op *types.CreateTable) error {
	if existing, ok := model.Table(op.Name); ok {
		return conflict(op, fmt.Sprintf("table %s already exists (created in %s)",
			existing.Name, firstOrigin(model, existing.Name)))
	}

	table := &types.TableSchema{
		Name:    op.Name,
		Columns: make([]types.ColumnDefinition, len(op.Columns)),
	}
	copy(table.Columns, op.Columns)

	if len(op.Constraints) > 0 {
		table.Constraints = make([]string, len(op.Constraints))
		copy(table.Constraints, op.Constraints)
	}

	model.AddTable(table)
	return nil
}

func (r *Reducer) applyDropTable(model *types.SchemaModel, op *types.DropTable) error {
	if !model.HasTable(op.Name) {
		return conflict(op, fmt.Sprintf("table %s does not exist", op.Name))
	}
	model.RemoveTable(op.Name)
	return nil
}

func (r *Reducer) applyAddColumn(model *types.SchemaModel, op *types.AddColumn) error {
	table, ok := model.Table(op.Table)
	if !ok {
		return conflict(op, fmt.Sprintf("table %s does not exist", op.Table))
	}
	if table.HasColumn(op.Column.Name) {
		return conflict(op, fmt.Sprintf("column %s already exists on %s", op.Column.Name, table.Name))
	}
	table.Columns = append(table.Columns, op.Column)
	return nil
}

func (r *Reducer) applyDropColumn(model *types.SchemaModel, op *types.DropColumn) error {
	table, ok := model.Table(op.Table)
	if !ok {
		return conflict(op, fmt.Sprintf("table %s does not exist", op.Table))
	}

	found := false
	columns := make([]types.ColumnDefinition, 0, len(table.Columns))
	for _, col := range table.Columns {
		if strings.EqualFold(col.Name, op.ColumnName) {
			found = true
			continue
		}
		columns = append(columns, col)
	}
	if !found {
		return conflict(op, fmt.Sprintf("column %s does not exist on %s", op.ColumnName, table.Name))
	}
	table.Columns = columns

	// Indexes that covered the dropped column no longer describe live
	// structure.
	indexes := make([]types.IndexDefinition, 0, len(table.Indexes))
	for _, idx := range table.Indexes {
		if indexCovers(idx, op.ColumnName) {
			continue
		}
		indexes = append(indexes, idx)
	}
	table.Indexes = indexes

	return nil
}

func (r *Reducer) applyAlterColumn(model *types.SchemaModel, op *types.AlterColumn) error {
	table, ok := model.Table(op.Table)
	if !ok {
		return conflict(op, fmt.Sprintf("table %s does not exist", op.Table))
	}

	for i := range table.Columns {
		if strings.EqualFold(table.Columns[i].Name, op.ColumnName) {
			// Full replacement at the column's existing position; the
			// new definition is exactly what the migration declared.
			table.Columns[i] = op.NewDefinition
			return nil
		}
	}

	return conflict(op, fmt.Sprintf("column %s does not exist on %s", op.ColumnName, table.Name))
}

func (r *Reducer) applyCreateIndex(model *types.SchemaModel, op *types.CreateIndex) error {
	table, ok := model.Table(op.Table)
	if !ok {
		return conflict(op, fmt.Sprintf("table %s does not exist", op.Table))
	}

	for _, idx := range table.Indexes {
		if strings.EqualFold(idx.Name, op.Name) {
			return conflict(op, fmt.Sprintf("index %s already exists on %s", op.Name, table.Name))
		}
	}

	for _, colName := range op.Columns {
		if !table.HasColumn(colName) {
			return conflict(op, fmt.Sprintf("index %s covers unknown column %s", op.Name, colName))
		}
	}

	idx := types.IndexDefinition{
		Name:     op.Name,
		Table:    table.Name,
		Columns:  make([]string, len(op.Columns)),
		IsUnique: op.IsUnique,
	}
	copy(idx.Columns, op.Columns)
	table.Indexes = append(table.Indexes, idx)

	return nil
}

func indexCovers(idx types.IndexDefinition, column string) bool {
	for _, col := range idx.Columns {
		if strings.EqualFold(col, column) {
			return true
		}
	}
	return false
}

func conflict(op types.Operation, message string) error {
	return errors.NewSchemaConflictError(op.TableName(), string(op.Kind()), op.Origin().File, message)
}

// firstOrigin finds the file that created the live table, for conflict
// messages that point at both sides of a duplicate. Walks the log
// backward so a drop-and-recreate history reports the recreating file.
func firstOrigin(model *types.SchemaModel, table string) string {
	for i := len(model.Operations) - 1; i >= 0; i-- {
		op := model.Operations[i]
		if op.Kind() == types.OpCreateTable && strings.EqualFold(op.TableName(), table) {
			return op.Origin().File
		}
	}
	return "an earlier migration"
}
