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
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/types"
)

// RawStatement is one top-level SQL statement with the line it starts
// on. The migration runner embeds every raw statement; schema
// derivation only consumes the ones that classify as DDL.
type RawStatement struct {
	SQL  string
	Line int
}

// ParsedMigration holds everything extracted from one migration file.
type ParsedMigration struct {
	File       types.MigrationFile
	Statements []RawStatement
	Operations []types.Operation
}

// Parser turns migration file text into structural operations.
type Parser struct {
	reporter *report.Reporter
}

func New(reporter *report.Reporter) *Parser {
	return &Parser{
		reporter: reporter,
	}
}

var (
	createTableRe = regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(["` + "`" + `\w.]+)`)
	createIndexRe = regexp.MustCompile(`(?i)^CREATE\s+(UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?(["` + "`" + `\w.]+)\s+ON\s+(["` + "`" + `\w.]+)\s*\(([^)]+)\)`)
	dropTableRe   = regexp.MustCompile(`(?i)^DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?(["` + "`" + `\w.]+)`)
	alterTableRe  = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+(?:ONLY\s+)?(["` + "`" + `\w.]+)\s+(.+)$`)
	foreignKeyRe  = regexp.MustCompile(`(?i)FOREIGN\s+KEY\s*\(([^)]+)\)\s*REFERENCES\s+(["` + "`" + `\w.]+)\s*(?:\(([^)]+)\))?`)
	defaultRe     = regexp.MustCompile(`(?i)\bDEFAULT\s+('(?:[^']|'')*'|\([^)]*\)|[^\s,]+)`)
	referencesRe  = regexp.MustCompile(`(?i)\bREFERENCES\s+(["` + "`" + `\w.]+)\s*(?:\((["` + "`" + `\w\s,]+)\))?`)
	typeSizeRe    = regexp.MustCompile(`^([A-Za-z]\w*)\s*\(([^)]+)\)`)
)

// Parse extracts the raw statement list and the schema operations from
// one migration file. Statements with an unrecognized leading keyword,
// and ALTER TABLE actions that only attach table constraints, are kept
// in the raw list and reported as warnings; a recognized statement
// that cannot be parsed is a hard error.
func (p *Parser) Parse(file types.MigrationFile) (*ParsedMigration, error) {
	parsed := &ParsedMigration{File: file}

	text := stripComments(file.SQL)
	parsed.Statements = splitStatements(text)

	for i, stmt := range parsed.Statements {
		index := i + 1
		op, err := p.parseStatement(file, stmt, index)
		if err != nil {
			return nil, err
		}
		if op == nil {
			continue
		}
		if err := op.Validate(); err != nil {
			return nil, errors.ParseError{
				FilePath:  file.Path,
				Line:      stmt.Line,
				Statement: index,
				Message:   err.Error(),
				SQL:       excerpt(stmt.SQL),
			}
		}
		parsed.Operations = append(parsed.Operations, op)
	}

	return parsed, nil
}

func (p *Parser) parseStatement(file types.MigrationFile, stmt RawStatement, index int) (types.Operation, error) {
	sql := strings.TrimSpace(stmt.SQL)
	upperSQL := strings.ToUpper(sql)
	origin := types.Provenance{File: file.Path, Sequence: file.Sequence, Statement: index}

	switch {
	case strings.HasPrefix(upperSQL, "CREATE TABLE"):
		return p.parseCreateTable(file, stmt, index, origin)
	case strings.HasPrefix(upperSQL, "CREATE INDEX") || strings.HasPrefix(upperSQL, "CREATE UNIQUE INDEX"):
		return p.parseCreateIndex(file, stmt, index, origin)
	case strings.HasPrefix(upperSQL, "ALTER TABLE"):
		return p.parseAlterTable(file, stmt, index, origin)
	case strings.HasPrefix(upperSQL, "DROP TABLE"):
		return p.parseDropTable(file, stmt, index, origin)
	default:
		p.reporter.Warn(errors.SkippedStatementWarning{
			FilePath:  file.Path,
			Statement: index,
			Summary:   leadingKeywords(sql),
		})
		return nil, nil
	}
}

func (p *Parser) parseCreateTable(file types.MigrationFile, stmt RawStatement, index int, origin types.Provenance) (types.Operation, error) {
	sql := strings.TrimSpace(stmt.SQL)

	matches := createTableRe.FindStringSubmatch(sql)
	if len(matches) < 2 {
		return nil, p.statementError(file, stmt, index, "cannot extract table name from CREATE TABLE")
	}

	op := &types.CreateTable{
		Provenance: origin,
		Name:       cleanIdentifier(matches[1]),
	}

	start := strings.Index(sql, "(")
	end := strings.LastIndex(sql, ")")
	if start < 0 || end <= start {
		return nil, p.statementError(file, stmt, index, "CREATE TABLE is missing a column list")
	}

	body := sql[start+1 : end]
	for _, part := range smartSplit(body, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if isTableConstraint(part) {
			p.applyTableConstraint(op, part)
			continue
		}
		col := parseColumn(part)
		if col.Name == "" {
			return nil, p.statementError(file, stmt, index,
				fmt.Sprintf("cannot parse column definition %q", excerpt(part)))
		}
		op.Columns = append(op.Columns, col)
	}

	return op, nil
}

func (p *Parser) parseCreateIndex(file types.MigrationFile, stmt RawStatement, index int, origin types.Provenance) (types.Operation, error) {
	sql := strings.TrimSpace(stmt.SQL)

	matches := createIndexRe.FindStringSubmatch(sql)
	if len(matches) < 5 {
		return nil, p.statementError(file, stmt, index, "cannot parse CREATE INDEX statement")
	}

	return &types.CreateIndex{
		Provenance: origin,
		Name:       cleanIdentifier(matches[2]),
		Table:      cleanIdentifier(matches[3]),
		Columns:    parseColumnList(matches[4]),
		IsUnique:   matches[1] != "",
	}, nil
}

func (p *Parser) parseDropTable(file types.MigrationFile, stmt RawStatement, index int, origin types.Provenance) (types.Operation, error) {
	sql := strings.TrimSpace(stmt.SQL)

	matches := dropTableRe.FindStringSubmatch(sql)
	if len(matches) < 2 {
		return nil, p.statementError(file, stmt, index, "cannot extract table name from DROP TABLE")
	}

	return &types.DropTable{
		Provenance: origin,
		Name:       cleanIdentifier(matches[1]),
	}, nil
}

func (p *Parser) parseAlterTable(file types.MigrationFile, stmt RawStatement, index int, origin types.Provenance) (types.Operation, error) {
	sql := strings.TrimSpace(stmt.SQL)

	matches := alterTableRe.FindStringSubmatch(sql)
	if len(matches) < 3 {
		return nil, p.statementError(file, stmt, index, "cannot parse ALTER TABLE statement")
	}

	table := cleanIdentifier(matches[1])
	action := strings.TrimSpace(matches[2])
	upperAction := strings.ToUpper(action)

	switch {
	case strings.HasPrefix(upperAction, "ADD COLUMN ") || strings.HasPrefix(upperAction, "ADD "):
		def := strings.TrimSpace(action[len("ADD"):])
		if strings.HasPrefix(strings.ToUpper(def), "COLUMN ") {
			def = strings.TrimSpace(def[len("COLUMN"):])
		}
		// Constraint additions change no column; the raw statement still
		// reaches the migration runner.
		if isTableConstraint(def) {
			p.reporter.Warn(errors.SkippedStatementWarning{
				FilePath:  file.Path,
				Statement: index,
				Summary:   leadingKeywords(action),
			})
			return nil, nil
		}
		col := parseColumn(def)
		if col.Name == "" {
			return nil, p.statementError(file, stmt, index,
				fmt.Sprintf("cannot parse added column %q", excerpt(def)))
		}
		return &types.AddColumn{Provenance: origin, Table: table, Column: col}, nil

	case strings.HasPrefix(upperAction, "DROP COLUMN ") || strings.HasPrefix(upperAction, "DROP "):
		name := strings.TrimSpace(action[len("DROP"):])
		if strings.HasPrefix(strings.ToUpper(name), "COLUMN ") {
			name = strings.TrimSpace(name[len("COLUMN"):])
		}
		if isTableConstraint(name) {
			p.reporter.Warn(errors.SkippedStatementWarning{
				FilePath:  file.Path,
				Statement: index,
				Summary:   leadingKeywords(action),
			})
			return nil, nil
		}
		name = cleanIdentifier(strings.Fields(name)[0])
		return &types.DropColumn{Provenance: origin, Table: table, ColumnName: name}, nil

	case strings.HasPrefix(upperAction, "ALTER COLUMN ") || strings.HasPrefix(upperAction, "MODIFY COLUMN ") || strings.HasPrefix(upperAction, "MODIFY "):
		def := action
		for _, prefix := range []string{"ALTER COLUMN ", "MODIFY COLUMN ", "MODIFY "} {
			if strings.HasPrefix(strings.ToUpper(def), prefix) {
				def = strings.TrimSpace(def[len(prefix):])
				break
			}
		}
		// Postgres writes "ALTER COLUMN name TYPE text"; fold the TYPE
		// keyword away so the rest reads like a plain column definition.
		fields := strings.Fields(def)
		if len(fields) >= 3 && strings.EqualFold(fields[1], "TYPE") {
			def = fields[0] + " " + strings.Join(fields[2:], " ")
		}
		col := parseColumn(def)
		if col.Name == "" || col.DataType == "" {
			return nil, p.statementError(file, stmt, index,
				fmt.Sprintf("cannot parse altered column %q", excerpt(def)))
		}
		return &types.AlterColumn{
			Provenance:    origin,
			Table:         table,
			ColumnName:    col.Name,
			NewDefinition: col,
		}, nil

	default:
		return nil, p.statementError(file, stmt, index,
			fmt.Sprintf("unsupported ALTER TABLE action %q", excerpt(action)))
	}
}

func (p *Parser) statementError(file types.MigrationFile, stmt RawStatement, index int, message string) error {
	return errors.ParseError{
		FilePath:  file.Path,
		Line:      stmt.Line,
		Statement: index,
		Message:   message,
		SQL:       excerpt(stmt.SQL),
	}
}

// applyTableConstraint folds a table-level constraint into the create
// operation: primary key lists mark their columns, foreign key lists
// attach references, everything else is carried as raw constraint text.
func (p *Parser) applyTableConstraint(op *types.CreateTable, constraint string) {
	upper := strings.ToUpper(constraint)

	if idx := strings.Index(upper, "PRIMARY KEY"); idx >= 0 {
		inner := parenContents(constraint[idx:])
		if inner != "" {
			for _, name := range parseColumnList(inner) {
				for i := range op.Columns {
					if strings.EqualFold(op.Columns[i].Name, name) {
						op.Columns[i].IsPrimaryKey = true
						op.Columns[i].IsNullable = false
					}
				}
			}
			return
		}
	}

	if strings.Contains(upper, "FOREIGN KEY") {
		if matches := foreignKeyRe.FindStringSubmatch(constraint); len(matches) > 2 {
			cols := parseColumnList(matches[1])
			refTable := cleanIdentifier(matches[2])
			var refCols []string
			if len(matches) > 3 && matches[3] != "" {
				refCols = parseColumnList(matches[3])
			}
			for i, name := range cols {
				for j := range op.Columns {
					if strings.EqualFold(op.Columns[j].Name, name) {
						op.Columns[j].RefTable = refTable
						if i < len(refCols) {
							op.Columns[j].RefColumn = refCols[i]
						}
					}
				}
			}
			return
		}
	}

	op.Constraints = append(op.Constraints, strings.TrimSpace(constraint))
}

func isTableConstraint(part string) bool {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(part)))
	if len(fields) == 0 {
		return false
	}
	head := fields[0]
	// UNIQUE(a) and CHECK(x > 0) may have no space before the paren.
	if idx := strings.Index(head, "("); idx > 0 {
		head = head[:idx]
	}
	switch head {
	case "CONSTRAINT", "UNIQUE", "CHECK":
		return true
	case "PRIMARY", "FOREIGN":
		return len(fields) > 1 && strings.HasPrefix(fields[1], "KEY")
	}
	return false
}

func parseColumn(def string) types.ColumnDefinition {
	col := types.ColumnDefinition{
		IsNullable: true,
	}

	parts := strings.Fields(def)
	if len(parts) < 2 {
		return col
	}

	col.Name = cleanIdentifier(parts[0])

	rest := strings.TrimSpace(def[strings.Index(def, parts[0])+len(parts[0]):])
	if matches := typeSizeRe.FindStringSubmatch(rest); len(matches) > 2 {
		col.DataType = strings.ToUpper(matches[1])
		col.Size = strings.TrimSpace(matches[2])
	} else {
		col.DataType = strings.ToUpper(parts[1])
	}

	upperDef := strings.ToUpper(def)
	if strings.Contains(upperDef, "NOT NULL") {
		col.IsNullable = false
	}
	if strings.Contains(upperDef, "PRIMARY KEY") {
		col.IsPrimaryKey = true
		col.IsNullable = false
	}
	if matches := defaultRe.FindStringSubmatch(def); len(matches) > 1 {
		col.DefaultValue = matches[1]
	}
	if matches := referencesRe.FindStringSubmatch(def); len(matches) > 1 {
		col.RefTable = cleanIdentifier(matches[1])
		if len(matches) > 2 && matches[2] != "" {
			refCols := parseColumnList(matches[2])
			if len(refCols) > 0 {
				col.RefColumn = refCols[0]
			}
		}
	}

	return col
}

func cleanIdentifier(id string) string {
	id = strings.TrimSpace(id)
	id = strings.Trim(id, "\"`")
	// Strip a schema qualifier; generated artifacts are single-schema.
	if idx := strings.LastIndex(id, "."); idx >= 0 {
		id = id[idx+1:]
	}
	return id
}

func parseColumnList(list string) []string {
	var columns []string
	for _, part := range strings.Split(list, ",") {
		// Index column lists may carry collation or direction tokens.
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		col := cleanIdentifier(fields[0])
		if col != "" {
			columns = append(columns, col)
		}
	}
	return columns
}

func parenContents(s string) string {
	start := strings.Index(s, "(")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[start+1 : i]
			}
		}
	}
	return ""
}

func leadingKeywords(sql string) string {
	fields := strings.Fields(sql)
	n := len(fields)
	if n > 2 {
		n = 2
	}
	return strings.ToUpper(strings.Join(fields[:n], " "))
}

func excerpt(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}

// stripComments removes line and block comments while preserving every
// newline so statement line numbers stay accurate.
func stripComments(sql string) string {
	var out strings.Builder
	out.Grow(len(sql))

	var quote byte
	i := 0
	for i < len(sql) {
		c := sql[i]

		if quote != 0 {
			out.WriteByte(c)
			if c == quote {
				quote = 0
			}
			i++
			continue
		}

		switch {
		case c == '\'' || c == '"':
			quote = c
			out.WriteByte(c)
			i++
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			i += 2
			for i < len(sql) {
				if sql[i] == '*' && i+1 < len(sql) && sql[i+1] == '/' {
					i += 2
					break
				}
				if sql[i] == '\n' {
					out.WriteByte('\n')
				}
				i++
			}
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String()
}

// splitStatements splits on top-level semicolons. A semicolon inside a
// quoted string or a balanced parenthesis block does not terminate a
// statement.
func splitStatements(sql string) []RawStatement {
	var result []RawStatement
	var current strings.Builder

	line := 1
	startLine := 0
	parenDepth := 0
	var quote rune

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			result = append(result, RawStatement{SQL: stmt, Line: startLine})
		}
		current.Reset()
		startLine = 0
	}

	for _, r := range sql {
		if r == '\n' {
			line++
		}

		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			parenDepth++
		case r == ')':
			parenDepth--
		case r == ';' && parenDepth == 0:
			flush()
			continue
		}

		if startLine == 0 && !isSpace(r) {
			startLine = line
		}
		current.WriteRune(r)
	}
	flush()

	return result
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// smartSplit splits on the separator at paren depth zero, outside
// quoted strings. Used for column lists where inline constraints such
// as CHECK(...) carry nested commas.
func smartSplit(s string, sep rune) []string {
	var result []string
	var current strings.Builder
	parenDepth := 0
	var quote rune

	for _, r := range s {
		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			parenDepth++
		case r == ')':
			parenDepth--
		case r == sep && parenDepth == 0:
			result = append(result, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}
