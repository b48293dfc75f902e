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
	"strings"

	"github.com/ocomsoft/migratype/internal/naming"
)

// Artifact is one generated source file. Filename is relative to the
// output location configured for the artifact kind.
type Artifact struct {
	Filename string
	Content  string
}

// fileHeader renders the banner every generated file starts with.
func fileHeader(description string) string {
	return "// Auto-generated " + description + "\n// Do not edit manually\n\n"
}

// tsString renders s as a single-quoted TypeScript string literal.
func tsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// rowAccess renders row.<column> or row['<column>'] depending on
// whether the raw column name is a legal identifier.
func rowAccess(receiver, column string) string {
	if naming.IsIdentifier(column) {
		return receiver + "." + column
	}
	return receiver + "[" + tsString(column) + "]"
}

// fileBase derives the generated filename stem for a table, e.g.
// "UserProfiles" becomes "user_profiles".
func fileBase(table string) string {
	return naming.Snake(table)
}

// modulePath joins an import base with a filename stem, collapsing the
// "." base to the local directory.
func modulePath(base, stem string) string {
	if base == "" || base == "." {
		return "./" + stem
	}
	return strings.TrimSuffix(base, "/") + "/" + stem
}
