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
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ocomsoft/migratype/internal/parser"
)

// LedgerTable is the name of the applied-migrations table the generated
// runner maintains on the target database.
const LedgerTable = "_migratype_migrations"

// MigrationEmitter renders the migrations.ts runner. The runner embeds
// every raw statement of every migration file, in order, so non-DDL
// statements such as seed INSERTs are applied even though they
// contribute nothing to the schema model.
type MigrationEmitter struct{}

// NewMigrationEmitter creates a migration runner emitter.
func NewMigrationEmitter() *MigrationEmitter {
	return &MigrationEmitter{}
}

// Emit renders the runner for the ordered migration list.
func (e *MigrationEmitter) Emit(migrations []parser.ParsedMigration) (Artifact, error) {
	var sb strings.Builder

	sb.WriteString(fileHeader("migration runner"))

	sb.WriteString("/** One embedded SQL statement with its source line. */\n")
	sb.WriteString("export interface MigrationStatement {\n")
	sb.WriteString("  sql: string;\n")
	sb.WriteString("  line: number;\n")
	sb.WriteString("}\n\n")

	sb.WriteString("/** One migration file: sequence, name, content checksum and statements. */\n")
	sb.WriteString("export interface MigrationEntry {\n")
	sb.WriteString("  sequence: number;\n")
	sb.WriteString("  name: string;\n")
	sb.WriteString("  checksum: string;\n")
	sb.WriteString("  statements: MigrationStatement[];\n")
	sb.WriteString("}\n\n")

	sb.WriteString("/** Driver surface the runner needs. */\n")
	sb.WriteString("export interface MigrationExecutor {\n")
	sb.WriteString("  query(sql: string, params?: unknown[]): Promise<Array<Record<string, unknown>>>;\n")
	sb.WriteString("  run(sql: string, params?: unknown[]): Promise<unknown>;\n")
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("export const LEDGER_TABLE = %s;\n\n", tsString(LedgerTable)))

	e.writeEntries(&sb, migrations)
	sb.WriteString("\n")
	e.writeRunner(&sb)

	return Artifact{Filename: "migrations.ts", Content: sb.String()}, nil
}

func (e *MigrationEmitter) writeEntries(sb *strings.Builder, migrations []parser.ParsedMigration) {
	sb.WriteString("export const MIGRATIONS: MigrationEntry[] = [\n")
	for _, m := range migrations {
		sb.WriteString("  {\n")
		sb.WriteString(fmt.Sprintf("    sequence: %d,\n", m.File.Sequence))
		sb.WriteString(fmt.Sprintf("    name: %s,\n", tsString(m.File.Name)))
		sb.WriteString(fmt.Sprintf("    checksum: %s,\n", tsString(Checksum(m.File.SQL))))
		sb.WriteString("    statements: [\n")
		for _, stmt := range m.Statements {
			sb.WriteString(fmt.Sprintf("      { sql: %s, line: %d },\n", tsString(stmt.SQL), stmt.Line))
		}
		sb.WriteString("    ],\n")
		sb.WriteString("  },\n")
	}
	sb.WriteString("];\n")
}

func (e *MigrationEmitter) writeRunner(sb *strings.Builder) {
	sb.WriteString(`/**
 * Applies every pending migration in sequence order and returns the
 * number applied. Already-applied sequences are skipped via the ledger
 * table. If a migration fails mid-apply, earlier migrations stay
 * applied, the failing one is not recorded, and the runner halts.
 */
export async function applyMigrations(db: MigrationExecutor): Promise<number> {
  await db.run(
    'CREATE TABLE IF NOT EXISTS ' +
      LEDGER_TABLE +
      ' (sequence INTEGER PRIMARY KEY, name TEXT NOT NULL,' +
      ' checksum TEXT NOT NULL, applied_at TEXT NOT NULL)'
  );

  const rows = await db.query('SELECT sequence, checksum FROM ' + LEDGER_TABLE);
  const applied = new Map<number, string>();
  for (const row of rows) {
    applied.set(Number(row.sequence), String(row.checksum));
  }

  // An applied migration whose file changed afterwards is corrupt
  // history. Refuse before running anything.
  for (const migration of MIGRATIONS) {
    const recorded = applied.get(migration.sequence);
    if (recorded !== undefined && recorded !== migration.checksum) {
      throw new Error(
        'migration ' +
          migration.name +
          ' changed after it was applied (expected checksum ' +
          recorded +
          ', file has ' +
          migration.checksum +
          ')'
      );
    }
  }

  let count = 0;
  for (const migration of MIGRATIONS) {
    if (applied.has(migration.sequence)) {
      continue;
    }
    for (const statement of migration.statements) {
      await db.run(statement.sql);
    }
    await db.run(
      'INSERT INTO ' +
        LEDGER_TABLE +
        ' (sequence, name, checksum, applied_at) VALUES (?, ?, ?, ?)',
      [migration.sequence, migration.name, migration.checksum, new Date().toISOString()]
    );
    count += 1;
  }
  return count;
}
`)
}

// Checksum returns the hex sha256 of a migration file's raw content.
func Checksum(sql string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(sql)))
}
