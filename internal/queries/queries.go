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
package queries

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/naming"
	"github.com/ocomsoft/migratype/internal/report"
)

// Param declares a named, typed parameter of a custom query. The type
// is a TypeScript type expression and is passed through verbatim.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Query is one hand-written SQL statement to expose as a service
// method. Mode controls whether the generated method reads rows or
// executes a statement; it defaults to "many".
type Query struct {
	Name   string  `yaml:"name"`
	Params []Param `yaml:"params"`
	SQL    string  `yaml:"sql"`
	Mode   string  `yaml:"mode"`
}

// Returns reports whether the query produces a result set.
func (q *Query) Returns() bool {
	return q.Mode != ModeExec
}

// Single reports whether the query produces at most one row.
func (q *Query) Single() bool {
	return q.Mode == ModeOne
}

// Query modes. "many" returns all rows, "one" returns the first row or
// null, "exec" runs the statement without reading rows.
const (
	ModeMany = "many"
	ModeOne  = "one"
	ModeExec = "exec"
)

// File is the parsed content of one query file. The target table is
// derived from the filename, so todos.yaml attaches to the todos
// table.
type File struct {
	Path    string
	Table   string
	Queries []Query
}

// fileDocument is the on-disk YAML shape.
type fileDocument struct {
	Table   string  `yaml:"table"`
	Queries []Query `yaml:"queries"`
}

// Loader reads and validates query files.
type Loader struct {
	fs       fsio.FileSystem
	reporter *report.Reporter
}

// NewLoader creates a query file loader.
func NewLoader(fs fsio.FileSystem, reporter *report.Reporter) *Loader {
	return &Loader{
		fs:       fs,
		reporter: reporter,
	}
}

// Load parses a single query file. The table name comes from the
// filename unless the document overrides it with a top-level table key.
func (l *Loader) Load(path string) (*File, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, errors.NewQueryFileError(path, fmt.Sprintf("failed to read file: %v", err))
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewQueryFileError(path, "file is empty")
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewQueryFileError(path, fmt.Sprintf("invalid YAML syntax: %v", err))
	}

	table := doc.Table
	if table == "" {
		table = tableFromFilename(path)
	}
	if table == "" {
		return nil, errors.NewQueryFileError(path, "cannot derive a table name from the filename")
	}

	file := &File{
		Path:    path,
		Table:   table,
		Queries: doc.Queries,
	}
	if err := l.validate(file); err != nil {
		return nil, err
	}

	l.reporter.Verbosef("Loaded %d queries for table %s from %s", len(file.Queries), file.Table, path)
	return file, nil
}

// LoadAll parses every path and returns the files sorted by table name
// so downstream generation is deterministic.
func (l *Loader) LoadAll(paths []string) ([]*File, error) {
	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		file, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Table != files[j].Table {
			return files[i].Table < files[j].Table
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func (l *Loader) validate(file *File) error {
	seen := make(map[string]bool)
	for i := range file.Queries {
		q := &file.Queries[i]

		if q.Name == "" {
			return errors.NewQueryFileError(file.Path, fmt.Sprintf("query %d has no name", i+1))
		}
		if !naming.IsIdentifier(q.Name) {
			return errors.NewQueryFileError(file.Path,
				fmt.Sprintf("query name %q is not a valid method name", q.Name))
		}
		if seen[q.Name] {
			return errors.NewQueryFileError(file.Path, fmt.Sprintf("duplicate query name %q", q.Name))
		}
		seen[q.Name] = true

		if strings.TrimSpace(q.SQL) == "" {
			return errors.NewQueryFileError(file.Path, fmt.Sprintf("query %q has no sql", q.Name))
		}

		switch q.Mode {
		case "":
			q.Mode = ModeMany
		case ModeMany, ModeOne, ModeExec:
		default:
			return errors.NewQueryFileError(file.Path,
				fmt.Sprintf("query %q has unknown mode %q (supported: many, one, exec)", q.Name, q.Mode))
		}

		paramNames := make(map[string]bool)
		for _, p := range q.Params {
			if p.Name == "" {
				return errors.NewQueryFileError(file.Path,
					fmt.Sprintf("query %q has a parameter with no name", q.Name))
			}
			if !naming.IsIdentifier(p.Name) {
				return errors.NewQueryFileError(file.Path,
					fmt.Sprintf("query %q parameter %q is not a valid identifier", q.Name, p.Name))
			}
			if paramNames[p.Name] {
				return errors.NewQueryFileError(file.Path,
					fmt.Sprintf("query %q has duplicate parameter %q", q.Name, p.Name))
			}
			paramNames[p.Name] = true
			if strings.TrimSpace(p.Type) == "" {
				return errors.NewQueryFileError(file.Path,
					fmt.Sprintf("query %q parameter %q has no type", q.Name, p.Name))
			}
		}
	}
	return nil
}

// tableFromFilename strips the directory and extension, so
// queries/todos.yaml names the todos table.
func tableFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
