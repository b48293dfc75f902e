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

// allCmd represents the all command
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Generate models, migration runner, services and the Dexie schema",
	Long: `Generate the complete TypeScript data access layer.

This runs every generator over the migration history:
- Entity models into the configured models directory
- The migration runner file
- One service class per table, merged with hand-written queries
- The Dexie schema, unless disabled in the configuration

Running migratype without a subcommand does the same thing.`,
	RunE: runDefaultGenerate,
}

func init() {
	rootCmd.AddCommand(allCmd)

	allCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")
	allCmd.Flags().StringVar(&inputFile, "file", "", "Generate from this single migration file instead of scanning the directory")
}
