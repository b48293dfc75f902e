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

// migrationCmd represents the migration command
var migrationCmd = &cobra.Command{
	Use:   "migration",
	Short: "Generate the TypeScript migration runner",
	Long: `Generate the migration runner file from the migration history.

The runner embeds every migration's statements verbatim, including seed
data, together with a checksum of each file. At runtime it records
applied migrations in the ` + "`_migratype_migrations`" + ` ledger table and
refuses to run when an already-applied file has been edited.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return executeGenerate(targets{migrations: true}, dryRun)
	},
}

func init() {
	rootCmd.AddCommand(migrationCmd)

	migrationCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")
	migrationCmd.Flags().StringVar(&inputFile, "file", "", "Generate from this single migration file instead of scanning the directory")
	migrationCmd.Flags().StringVar(&outputFile, "output", "", "Write the runner to this path instead of the configured one")
}
