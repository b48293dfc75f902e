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
	"testing"

	"github.com/ocomsoft/migratype/internal/parser"
	"github.com/ocomsoft/migratype/internal/types"
)

func sampleMigrations() []parser.ParsedMigration {
	return []parser.ParsedMigration{
		{
			File: types.MigrationFile{
				Sequence: 1,
				Name:     "001_create_todos.sql",
				SQL:      "CREATE TABLE todos (id INTEGER PRIMARY KEY);",
			},
			Statements: []parser.RawStatement{
				{SQL: "CREATE TABLE todos (id INTEGER PRIMARY KEY)", Line: 1},
			},
		},
		{
			File: types.MigrationFile{
				Sequence: 2,
				Name:     "002_seed.sql",
				SQL:      "INSERT INTO todos (id) VALUES (1);",
			},
			Statements: []parser.RawStatement{
				{SQL: "INSERT INTO todos (id) VALUES (1)", Line: 1},
			},
		},
	}
}

func TestMigrationEmitter_Emit(t *testing.T) {
	artifact, err := NewMigrationEmitter().Emit(sampleMigrations())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if artifact.Filename != "migrations.ts" {
		t.Errorf("Expected migrations.ts, got %s", artifact.Filename)
	}

	content := artifact.Content
	for _, want := range []string{
		"export const LEDGER_TABLE = '_migratype_migrations';",
		"export const MIGRATIONS: MigrationEntry[] = [",
		"sequence: 1,",
		"name: '001_create_todos.sql',",
		"{ sql: 'CREATE TABLE todos (id INTEGER PRIMARY KEY)', line: 1 },",
		// Non-DDL statements ride along so seeds are applied.
		"{ sql: 'INSERT INTO todos (id) VALUES (1)', line: 1 },",
		"export async function applyMigrations(db: MigrationExecutor): Promise<number> {",
		"CREATE TABLE IF NOT EXISTS ",
		"applied.has(migration.sequence)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected runner to contain %q", want)
		}
	}
}

func TestMigrationEmitter_ChecksumTracksContent(t *testing.T) {
	a := Checksum("CREATE TABLE todos (id INTEGER);")
	b := Checksum("CREATE TABLE todos (id INTEGER);")
	c := Checksum("CREATE TABLE todos (id INTEGER); -- edited")

	if a != b {
		t.Error("Expected identical content to produce identical checksums")
	}
	if a == c {
		t.Error("Expected changed content to change the checksum")
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
}

func TestMigrationEmitter_Deterministic(t *testing.T) {
	e := NewMigrationEmitter()
	first, err := e.Emit(sampleMigrations())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := e.Emit(sampleMigrations())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.Content != second.Content {
		t.Error("Expected byte-identical output for identical input")
	}
}

func TestMigrationEmitter_ChecksumGuardBeforeApply(t *testing.T) {
	artifact, err := NewMigrationEmitter().Emit(sampleMigrations())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	content := artifact.Content
	guard := strings.Index(content, "changed after it was applied")
	apply := strings.Index(content, "for (const statement of migration.statements)")
	if guard == -1 || apply == -1 {
		t.Fatal("Expected both the checksum guard and the apply loop")
	}
	if guard > apply {
		t.Error("Expected the checksum guard to run before any statement is applied")
	}
}
