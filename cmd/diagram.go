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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ocomsoft/migratype/internal/config"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/naming"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/types"
)

var diagramOutput string

// diagramCmd represents the diagram command
var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Generate Markdown documentation with diagrams from the schema",
	Long: `Generate Markdown documentation with an Entity Relationship Diagram
from the cumulative schema.

This command folds every migration file into the cumulative schema and
generates detailed Markdown documentation including:

- A Mermaid Entity Relationship Diagram (ERD)
- Complete table documentation with column details
- Index documentation
- Foreign key references between tables

The generated Markdown embeds a Mermaid diagram that renders in any
viewer with Mermaid support (GitHub, GitLab, VS Code, etc.), making it
suitable for living documentation, design reviews and onboarding.

Examples:
  # Generate documentation to the default file
  migratype diagram

  # Generate to a specific output file
  migratype diagram --output=docs/database-schema.md`,
	RunE: runDiagram,
}

// runDiagram executes the diagram command
func runDiagram(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	reporter := report.New(verbose || cfg.Output.Verbose)
	load, err := loadSchema(cfg, fsio.NewOS(), reporter)
	if err != nil {
		return err
	}

	reporter.Verbosef("\n5. Generating Markdown documentation...")

	markdown := generateMarkdownDocumentation(load.model, load.analysis.TableOrder, len(load.parsed))

	outputDir := filepath.Dir(diagramOutput)
	if outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(diagramOutput, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write documentation file: %w", err)
	}

	reporter.Successf("Schema documentation generated: %s", diagramOutput)
	return nil
}

// generateMarkdownDocumentation creates the full Markdown document.
func generateMarkdownDocumentation(model *types.SchemaModel, tableOrder []string, migrationCount int) string {
	var md strings.Builder

	tables := liveTables(model, tableOrder)

	md.WriteString("# Database Schema Documentation\n\n")
	md.WriteString(fmt.Sprintf("**Tables:** %d  \n", len(tables)))
	md.WriteString(fmt.Sprintf("**Migrations:** %d  \n", migrationCount))
	md.WriteString(fmt.Sprintf("**Generated:** %s  \n\n", time.Now().Format("2006-01-02 15:04:05")))

	md.WriteString("## Table of Contents\n\n")
	md.WriteString("- [Entity Relationship Diagram](#entity-relationship-diagram)\n")
	md.WriteString("- [Schema Overview](#schema-overview)\n")
	md.WriteString("- [Table Documentation](#table-documentation)\n")
	for _, table := range tables {
		md.WriteString(fmt.Sprintf("  - [%s Table](#%s-table)\n",
			naming.Pascal(table.Name), strings.ToLower(strings.ReplaceAll(table.Name, "_", "-"))))
	}
	md.WriteString("- [Relationships](#relationships)\n\n")

	generateERDSection(&md, tables)
	generateOverviewSection(&md, tables)
	generateTableDocumentation(&md, tables)
	generateRelationshipsSection(&md, tables)

	return md.String()
}

// liveTables resolves the ordered table names against the model.
func liveTables(model *types.SchemaModel, tableOrder []string) []*types.TableSchema {
	tables := make([]*types.TableSchema, 0, len(tableOrder))
	for _, name := range tableOrder {
		if table, ok := model.Table(name); ok {
			tables = append(tables, table)
		}
	}
	return tables
}

// generateERDSection creates the Entity Relationship Diagram using Mermaid
func generateERDSection(md *strings.Builder, tables []*types.TableSchema) {
	md.WriteString("## Entity Relationship Diagram\n\n")
	md.WriteString("```mermaid\n")
	md.WriteString("erDiagram\n")

	for _, table := range tables {
		md.WriteString(fmt.Sprintf("    %s {\n", strings.ToUpper(table.Name)))
		for _, col := range table.Columns {
			line := fmt.Sprintf("        %s %s", mermaidType(col.DataType), col.Name)
			if constraints := mermaidConstraints(col); constraints != "" {
				line += " " + constraints
			}
			md.WriteString(line + "\n")
		}
		md.WriteString("    }\n\n")
	}

	for _, table := range tables {
		for _, col := range table.Columns {
			if col.RefTable == "" {
				continue
			}
			md.WriteString(fmt.Sprintf("    %s ||--o{ %s : \"%s\"\n",
				strings.ToUpper(col.RefTable), strings.ToUpper(table.Name), col.Name))
		}
	}

	md.WriteString("```\n\n")
	md.WriteString("*Each entity represents a table with its columns and constraints. ")
	md.WriteString("Connecting lines show foreign key references.*\n\n")
}

// generateOverviewSection creates the schema overview section
func generateOverviewSection(md *strings.Builder, tables []*types.TableSchema) {
	totalColumns := 0
	totalIndexes := 0
	totalReferences := 0
	for _, table := range tables {
		totalColumns += len(table.Columns)
		totalIndexes += len(table.Indexes)
		for _, col := range table.Columns {
			if col.RefTable != "" {
				totalReferences++
			}
		}
	}

	md.WriteString("## Schema Overview\n\n")
	md.WriteString("| Statistic | Count |\n")
	md.WriteString("|-----------|-------|\n")
	md.WriteString(fmt.Sprintf("| **Total Tables** | %d |\n", len(tables)))
	md.WriteString(fmt.Sprintf("| **Total Columns** | %d |\n", totalColumns))
	md.WriteString(fmt.Sprintf("| **Total Indexes** | %d |\n", totalIndexes))
	md.WriteString(fmt.Sprintf("| **Foreign Key References** | %d |\n\n", totalReferences))
}

// generateTableDocumentation creates detailed documentation for each table
func generateTableDocumentation(md *strings.Builder, tables []*types.TableSchema) {
	md.WriteString("## Table Documentation\n\n")

	for _, table := range tables {
		md.WriteString(fmt.Sprintf("### %s Table\n\n", naming.Pascal(table.Name)))
		md.WriteString(fmt.Sprintf("**Table Name:** `%s`  \n", table.Name))
		md.WriteString(fmt.Sprintf("**Column Count:** %d  \n", len(table.Columns)))
		md.WriteString(fmt.Sprintf("**Index Count:** %d  \n\n", len(table.Indexes)))

		md.WriteString("#### Columns\n\n")
		md.WriteString("| Column | Type | Constraints | Default | References |\n")
		md.WriteString("|--------|------|-------------|---------|------------|\n")
		for _, col := range table.Columns {
			md.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s |\n",
				col.Name,
				columnTypeDescription(col),
				columnConstraintsDescription(col),
				columnDefaultDescription(col),
				columnReferenceDescription(col)))
		}
		md.WriteString("\n")

		if len(table.Indexes) > 0 {
			md.WriteString("#### Indexes\n\n")
			md.WriteString("| Index Name | Columns | Type |\n")
			md.WriteString("|------------|---------|------|\n")
			for _, index := range table.Indexes {
				indexType := "Index"
				if index.IsUnique {
					indexType = "Unique Index"
				}
				md.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n",
					index.Name, strings.Join(index.Columns, "`, `"), indexType))
			}
			md.WriteString("\n")
		}

		md.WriteString("---\n\n")
	}
}

// generateRelationshipsSection creates relationship documentation
func generateRelationshipsSection(md *strings.Builder, tables []*types.TableSchema) {
	md.WriteString("## Relationships\n\n")

	type relationship struct {
		fromTable string
		fromCol   string
		toTable   string
		toCol     string
	}
	var relationships []relationship
	for _, table := range tables {
		for _, col := range table.Columns {
			if col.RefTable == "" {
				continue
			}
			relationships = append(relationships, relationship{
				fromTable: table.Name,
				fromCol:   col.Name,
				toTable:   col.RefTable,
				toCol:     col.RefColumn,
			})
		}
	}

	if len(relationships) == 0 {
		md.WriteString("*No foreign key references defined in the schema.*\n\n")
		return
	}

	md.WriteString("| From Table | Column | To Table | To Column |\n")
	md.WriteString("|------------|--------|----------|-----------|\n")
	for _, rel := range relationships {
		toCol := "-"
		if rel.toCol != "" {
			toCol = "`" + rel.toCol + "`"
		}
		md.WriteString(fmt.Sprintf("| `%s` | `%s` | `%s` | %s |\n",
			rel.fromTable, rel.fromCol, rel.toTable, toCol))
	}
	md.WriteString("\n")
}

// Helper functions for generating documentation

func mermaidType(dataType string) string {
	switch strings.ToUpper(strings.TrimSpace(dataType)) {
	case "INTEGER", "INT", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT", "SERIAL", "BIGSERIAL":
		return "int"
	case "REAL", "FLOAT", "DOUBLE", "NUMERIC", "DECIMAL":
		return "decimal"
	case "BOOLEAN", "BOOL":
		return "boolean"
	case "DATE", "TIME", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return "datetime"
	case "BLOB", "BYTEA", "BINARY", "VARBINARY":
		return "blob"
	default:
		return "string"
	}
}

func mermaidConstraints(col types.ColumnDefinition) string {
	var constraints []string
	if col.IsPrimaryKey {
		constraints = append(constraints, "PK")
	}
	if col.RefTable != "" {
		constraints = append(constraints, "FK")
	}
	if !col.IsNullable && !col.IsPrimaryKey {
		constraints = append(constraints, "NOT_NULL")
	}
	if len(constraints) == 0 {
		return ""
	}
	return "\"" + strings.Join(constraints, ",") + "\""
}

func columnTypeDescription(col types.ColumnDefinition) string {
	if col.Size != "" {
		return fmt.Sprintf("%s(%s)", strings.ToUpper(col.DataType), col.Size)
	}
	return strings.ToUpper(col.DataType)
}

func columnConstraintsDescription(col types.ColumnDefinition) string {
	var constraints []string
	if col.IsPrimaryKey {
		constraints = append(constraints, "PRIMARY KEY")
	}
	if !col.IsNullable {
		constraints = append(constraints, "NOT NULL")
	} else {
		constraints = append(constraints, "NULLABLE")
	}
	return strings.Join(constraints, ", ")
}

func columnDefaultDescription(col types.ColumnDefinition) string {
	if col.DefaultValue == "" {
		return "-"
	}
	return fmt.Sprintf("`%s`", col.DefaultValue)
}

func columnReferenceDescription(col types.ColumnDefinition) string {
	if col.RefTable == "" {
		return "-"
	}
	if col.RefColumn != "" {
		return fmt.Sprintf("`%s(%s)`", col.RefTable, col.RefColumn)
	}
	return fmt.Sprintf("`%s`", col.RefTable)
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVar(&diagramOutput, "output", "schema-documentation.md",
		"Output Markdown documentation file path")
}
