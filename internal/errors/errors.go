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
package errors

import (
	"fmt"
)

// Common error types for the migratype tool

type ParseError struct {
	FilePath  string
	Line      int
	Statement int
	Message   string
	SQL       string
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.FilePath, e.Line, e.Message)
	}
	if e.Statement > 0 {
		return fmt.Sprintf("parse error in %s (statement %d): %s", e.FilePath, e.Statement, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.FilePath, e.Message)
}

type SchemaConflictError struct {
	TableName string
	Operation string
	FilePath  string
	Message   string
}

func (e SchemaConflictError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("schema conflict for table %s (%s) in %s: %s", e.TableName, e.Operation, e.FilePath, e.Message)
	}
	return fmt.Sprintf("schema conflict for table %s (%s): %s", e.TableName, e.Operation, e.Message)
}

type SequenceError struct {
	FilePath string
	Message  string
}

func (e SequenceError) Error() string {
	return fmt.Sprintf("migration sequence error in %s: %s", e.FilePath, e.Message)
}

type QueryFileError struct {
	FilePath string
	Message  string
}

func (e QueryFileError) Error() string {
	return fmt.Sprintf("query file error in %s: %s", e.FilePath, e.Message)
}

// Error wrapping helpers
func NewParseError(filePath string, line int, message string) error {
	return ParseError{FilePath: filePath, Line: line, Message: message}
}

func NewStatementParseError(filePath string, statement int, message, sql string) error {
	return ParseError{FilePath: filePath, Statement: statement, Message: message, SQL: sql}
}

func NewSchemaConflictError(tableName, operation, filePath, message string) error {
	return SchemaConflictError{TableName: tableName, Operation: operation, FilePath: filePath, Message: message}
}

func NewSequenceError(filePath, message string) error {
	return SequenceError{FilePath: filePath, Message: message}
}

func NewQueryFileError(filePath, message string) error {
	return QueryFileError{FilePath: filePath, Message: message}
}

// Utility functions for error checking
func IsParseError(err error) bool {
	_, ok := err.(ParseError)
	return ok
}

func IsSchemaConflictError(err error) bool {
	_, ok := err.(SchemaConflictError)
	return ok
}

func IsSequenceError(err error) bool {
	_, ok := err.(SequenceError)
	return ok
}

func IsQueryFileError(err error) bool {
	_, ok := err.(QueryFileError)
	return ok
}

// Warning represents a non-fatal condition collected during a run and
// reported at the end without stopping generation.
type Warning interface {
	Warning() string
}

type UnknownTypeWarning struct {
	TableName  string
	ColumnName string
	SQLType    string
	FilePath   string
}

func (w UnknownTypeWarning) Warning() string {
	return fmt.Sprintf("unknown SQL type %q for %s.%s (declared in %s), mapped to TypeScript 'unknown'",
		w.SQLType, w.TableName, w.ColumnName, w.FilePath)
}

type OrphanQueryWarning struct {
	FilePath  string
	QueryName string
	TableName string
}

func (w OrphanQueryWarning) Warning() string {
	return fmt.Sprintf("query %q in %s targets table %q which is not in the final schema; service has no CRUD methods",
		w.QueryName, w.FilePath, w.TableName)
}

type SkippedStatementWarning struct {
	FilePath  string
	Statement int
	Summary   string
}

func (w SkippedStatementWarning) Warning() string {
	return fmt.Sprintf("statement %d in %s is not schema-relevant (%s); carried into the migration runner only",
		w.Statement, w.FilePath, w.Summary)
}

type DanglingReferenceWarning struct {
	TableName  string
	ColumnName string
	RefTable   string
}

func (w DanglingReferenceWarning) Warning() string {
	return fmt.Sprintf("%s.%s references table %q which is not defined in the schema",
		w.TableName, w.ColumnName, w.RefTable)
}
