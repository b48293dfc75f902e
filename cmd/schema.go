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
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ocomsoft/migratype/internal/config"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/types"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the cumulative schema as SQL to console",
	Long: `Print the cumulative schema as SQL to console.

This command folds every migration file into the cumulative schema and
outputs the resulting CREATE statements. This is useful for:

- Viewing the schema all migrations add up to
- Debugging how an ALTER or DROP folded into the final state
- Feeding the collapsed schema to external tools

The output is the end state with every migration applied. It is not a
migration itself: columns that were added and later dropped do not
appear, and dropped tables are absent.

Examples:
  migratype schema
  migratype schema > schema.sql`,
	RunE: runSchema,
}

// runSchema executes the schema command
func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	reporter := report.New(verbose || cfg.Output.Verbose)
	load, err := loadSchema(cfg, fsio.NewOS(), reporter)
	if err != nil {
		return err
	}

	fmt.Print(renderSchemaSQL(load.model, load.analysis.TableOrder))
	return nil
}

// renderSchemaSQL renders the folded schema as canonical DDL, tables
// in reference order followed by their indexes.
func renderSchemaSQL(model *types.SchemaModel, tableOrder []string) string {
	var sb strings.Builder

	for _, name := range tableOrder {
		table, ok := model.Table(name)
		if !ok {
			continue
		}

		sb.WriteString(fmt.Sprintf("CREATE TABLE %s (\n", table.Name))

		inlinePK := len(table.PrimaryKeyColumns()) == 1
		lines := make([]string, 0, len(table.Columns)+1)
		for _, col := range table.Columns {
			lines = append(lines, "    "+columnDDL(col, inlinePK))
		}
		if pk := table.PrimaryKeyColumns(); len(pk) > 1 {
			lines = append(lines, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(pk, ", ")))
		}
		for _, constraint := range table.Constraints {
			lines = append(lines, "    "+constraint)
		}

		sb.WriteString(strings.Join(lines, ",\n"))
		sb.WriteString("\n);\n\n")

		for _, index := range table.Indexes {
			unique := ""
			if index.IsUnique {
				unique = "UNIQUE "
			}
			sb.WriteString(fmt.Sprintf("CREATE %sINDEX %s ON %s(%s);\n\n",
				unique, index.Name, table.Name, strings.Join(index.Columns, ", ")))
		}
	}

	return sb.String()
}

// columnDDL renders one column definition line.
func columnDDL(col types.ColumnDefinition, inlinePK bool) string {
	var sb strings.Builder

	sb.WriteString(col.Name)
	sb.WriteString(" ")
	sb.WriteString(col.DataType)
	if col.Size != "" {
		sb.WriteString("(" + col.Size + ")")
	}

	if col.IsPrimaryKey && inlinePK {
		sb.WriteString(" PRIMARY KEY")
	} else if !col.IsNullable {
		sb.WriteString(" NOT NULL")
	}

	if col.DefaultValue != "" {
		sb.WriteString(" DEFAULT " + col.DefaultValue)
	}

	if col.RefTable != "" {
		sb.WriteString(" REFERENCES " + col.RefTable)
		if col.RefColumn != "" {
			sb.WriteString("(" + col.RefColumn + ")")
		}
	}

	return sb.String()
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
