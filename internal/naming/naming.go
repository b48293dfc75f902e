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
package naming

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
)

var rules = inflect.NewDefaultRuleset()

// tsReservedWords contains TypeScript/JavaScript reserved words that
// cannot be used as identifiers.
var tsReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "implements": true,
	"interface": true, "package": true, "private": true, "protected": true, "public": true,
	"type": true, "async": true, "await": true,
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Pascal converts a snake_case identifier to PascalCase.
func Pascal(name string) string {
	return rules.Camelize(normalize(name))
}

// Camel converts a snake_case identifier to camelCase.
func Camel(name string) string {
	return rules.CamelizeDownFirst(normalize(name))
}

// Snake converts an identifier to snake_case.
func Snake(name string) string {
	return rules.Underscore(normalize(name))
}

// EntityName derives the singular PascalCase entity name for a table,
// e.g. "user_profiles" becomes "UserProfile".
func EntityName(table string) string {
	parts := strings.Split(normalize(table), "_")
	if len(parts) > 0 {
		last := len(parts) - 1
		parts[last] = rules.Singularize(parts[last])
	}
	return rules.Camelize(strings.Join(parts, "_"))
}

// ServiceName derives the service class name for a table, e.g. "todos"
// becomes "TodosService".
func ServiceName(table string) string {
	return Pascal(table) + "Service"
}

// FieldName derives the camelCase entity field name for a column.
// Reserved words are suffixed so the result is always a legal
// identifier.
func FieldName(column string) string {
	return SafeIdentifier(Camel(column))
}

// IsIdentifier reports whether name is a legal, non-reserved
// TypeScript identifier.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name) && !tsReservedWords[name]
}

// SafeIdentifier appends an underscore when the name collides with a
// TypeScript reserved word.
func SafeIdentifier(name string) string {
	if tsReservedWords[name] {
		return name + "_"
	}
	return name
}

// PropertyName renders a raw column name as an object property,
// quoting it when it is not a legal identifier.
func PropertyName(column string) string {
	if identifierPattern.MatchString(column) && !tsReservedWords[column] {
		return column
	}
	return "'" + strings.ReplaceAll(column, "'", "\\'") + "'"
}

// normalize lowercases and folds separator characters to underscores so
// mixed-style SQL identifiers inflect predictably.
func normalize(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}
