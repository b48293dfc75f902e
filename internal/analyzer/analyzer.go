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
	"fmt"
	"strings"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/typemap"
	"github.com/ocomsoft/migratype/internal/types"
)

// Analysis is the result of the post-reduction lint pass.
type Analysis struct {
	// TableOrder lists live tables with referenced tables first, so
	// emitters that care about relations iterate parents before
	// children. Falls back to creation order when references form a
	// cycle.
	TableOrder []string
}

// DependencyGraph records which tables reference which via foreign
// keys. Keys are lowercased table names.
type DependencyGraph struct {
	nodes map[string]*Node
	edges map[string][]string
	order []string
}

type Node struct {
	Name    string
	Visited bool
	InStack bool
}

// Analyzer lints a reduced schema and derives a deterministic table
// ordering for the emitters.
type Analyzer struct {
	reporter *report.Reporter
}

// New creates an analyzer that records warnings on the reporter.
func New(reporter *report.Reporter) *Analyzer {
	return &Analyzer{
		reporter: reporter,
	}
}

// Analyze checks the reduced schema for unknown column types and
// dangling references, then computes the table ordering. Findings are
// warnings, never errors: generation proceeds with degraded output.
func (a *Analyzer) Analyze(model *types.SchemaModel) (*Analysis, error) {
	a.lintColumnTypes(model)
	a.lintReferences(model)

	graph := a.buildGraph(model)
	order, err := a.topologicalSort(graph)
	if err != nil {
		// References form a cycle. They are informational only, so
		// fall back to creation order instead of failing the run.
		a.reporter.Verbosef("Reference cycle detected (%v), using creation order", err)
		order = model.TableNames()
	}

	return &Analysis{TableOrder: order}, nil
}

// lintColumnTypes warns for every live column whose declared SQL type
// has no known mapping. The type mapper degrades these to an opaque
// TypeScript type, so the run continues.
func (a *Analyzer) lintColumnTypes(model *types.SchemaModel) {
	for _, name := range model.TableNames() {
		table, _ := model.Table(name)
		for _, col := range table.Columns {
			if typemap.Known(col.DataType) {
				continue
			}
			a.reporter.Warn(errors.UnknownTypeWarning{
				TableName:  table.Name,
				ColumnName: col.Name,
				SQLType:    col.DataType,
				FilePath:   columnOrigin(model, table.Name, col.Name),
			})
		}
	}
}

// lintReferences warns when a column references a table or column that
// does not exist in the final schema.
func (a *Analyzer) lintReferences(model *types.SchemaModel) {
	for _, name := range model.TableNames() {
		table, _ := model.Table(name)
		for _, col := range table.Columns {
			if col.RefTable == "" {
				continue
			}

			target, ok := model.Table(col.RefTable)
			if !ok {
				a.reporter.Warn(errors.DanglingReferenceWarning{
					TableName:  table.Name,
					ColumnName: col.Name,
					RefTable:   col.RefTable,
				})
				continue
			}
			if col.RefColumn != "" && !target.HasColumn(col.RefColumn) {
				a.reporter.Warn(errors.DanglingReferenceWarning{
					TableName:  table.Name,
					ColumnName: col.Name,
					RefTable:   fmt.Sprintf("%s(%s)", col.RefTable, col.RefColumn),
				})
			}
		}
	}
}

// buildGraph creates nodes for every live table and edges for every
// reference that resolves to a live table. Self-references and
// dangling references contribute no edges.
func (a *Analyzer) buildGraph(model *types.SchemaModel) *DependencyGraph {
	graph := &DependencyGraph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]string),
		order: model.TableNames(),
	}

	for _, name := range graph.order {
		key := strings.ToLower(name)
		graph.nodes[key] = &Node{Name: name}
		graph.edges[key] = []string{}
	}

	for _, name := range graph.order {
		table, _ := model.Table(name)
		fromKey := strings.ToLower(name)
		for _, col := range table.Columns {
			if col.RefTable == "" {
				continue
			}
			toKey := strings.ToLower(col.RefTable)
			if toKey == fromKey {
				continue
			}
			if _, exists := graph.nodes[toKey]; !exists {
				continue
			}
			graph.edges[fromKey] = append(graph.edges[fromKey], toKey)
			a.reporter.Verbosef("Dependency: %s -> %s", name, col.RefTable)
		}
	}

	return graph
}

// topologicalSort orders tables so that referenced tables come first.
// Roots are visited in creation order, which makes the result
// deterministic for a given operation log.
func (a *Analyzer) topologicalSort(graph *DependencyGraph) ([]string, error) {
	var sorted []string
	var stack []string

	for _, node := range graph.nodes {
		node.Visited = false
		node.InStack = false
	}

	for _, name := range graph.order {
		key := strings.ToLower(name)
		if !graph.nodes[key].Visited {
			if err := a.dfsVisit(graph, key, &sorted, &stack); err != nil {
				return nil, err
			}
		}
	}

	return sorted, nil
}

func (a *Analyzer) dfsVisit(graph *DependencyGraph, nodeKey string, sorted *[]string, stack *[]string) error {
	node := graph.nodes[nodeKey]

	if node.InStack {
		cycle := findCycle(*stack, nodeKey)
		return fmt.Errorf("circular reference: %s", strings.Join(cycle, " -> "))
	}
	if node.Visited {
		return nil
	}

	node.Visited = true
	node.InStack = true
	*stack = append(*stack, nodeKey)

	for _, dep := range graph.edges[nodeKey] {
		if err := a.dfsVisit(graph, dep, sorted, stack); err != nil {
			return err
		}
	}

	node.InStack = false
	*stack = (*stack)[:len(*stack)-1]
	*sorted = append(*sorted, node.Name)

	return nil
}

func findCycle(stack []string, target string) []string {
	for i, name := range stack {
		if name == target {
			return append(stack[i:], target)
		}
	}
	return []string{target}
}

// columnOrigin walks the operation log backwards to find the migration
// file that last defined the named column.
func columnOrigin(model *types.SchemaModel, tableName, columnName string) string {
	for i := len(model.Operations) - 1; i >= 0; i-- {
		op := model.Operations[i]
		if !strings.EqualFold(op.TableName(), tableName) {
			continue
		}
		switch v := op.(type) {
		case *types.CreateTable:
			for _, c := range v.Columns {
				if strings.EqualFold(c.Name, columnName) {
					return v.Origin().File
				}
			}
		case *types.AddColumn:
			if strings.EqualFold(v.Column.Name, columnName) {
				return v.Origin().File
			}
		case *types.AlterColumn:
			if strings.EqualFold(v.ColumnName, columnName) {
				return v.Origin().File
			}
		}
	}
	return ""
}
