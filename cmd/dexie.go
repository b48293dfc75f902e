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
	"github.com/spf13/cobra"
)

// dexieCmd represents the dexie command
var dexieCmd = &cobra.Command{
	Use:   "dexie",
	Short: "Generate the Dexie (IndexedDB) schema",
	Long: `Generate a Dexie database class mirroring the SQL migration history.

Every migration operation becomes one Dexie version stage, so a browser
store upgrading through versions follows the same structural history as
the SQL database. Dropped tables are staged as null so Dexie deletes
the store.

This command emits the schema even when dexie.enabled is false in the
configuration; the flag only gates the all command.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return executeGenerate(targets{dexie: true}, dryRun)
	},
}

func init() {
	rootCmd.AddCommand(dexieCmd)

	dexieCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")
	dexieCmd.Flags().StringVar(&inputFile, "file", "", "Generate from this single migration file instead of scanning the directory")
	dexieCmd.Flags().StringVar(&outputFile, "output", "", "Write the schema to this path instead of the configured one")
}
