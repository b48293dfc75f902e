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

	"github.com/spf13/cobra"

	"github.com/ocomsoft/migratype/internal/version"
)

var (
	configFile string // Config file path
	dryRun     bool
	verbose    bool
	inputFile  string // Single migration file override for generation commands
	outputFile string // Single-file output override for migration and dexie
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "migratype",
	Short: "TypeScript data layer generator for SQL migrations",
	Long: `Generate a typed TypeScript data access layer from plain SQL migration files.

migratype reads the ordered .sql migration files of a project, folds them into
the cumulative schema, and generates:
- Typed entity models with row conversion helpers
- A migration runner that applies pending migrations with checksum verification
- One CRUD service class per table, extended with hand-written queries
- An optional Dexie (IndexedDB) schema mirroring the migration history

When run without a subcommand, defaults to 'all'.

Available commands:
- all: Generate models, migration runner, services and the Dexie schema
- model: Generate entity models only
- migration: Generate the migration runner only
- service: Generate service classes only
- dexie: Generate the Dexie schema only
- init: Initialize the project layout and config file
- new: Create the next empty migration file
- watch: Regenerate whenever migration or query files change
- schema: Print the cumulative schema as SQL
- diagram: Generate Markdown documentation with an ER diagram`,
	RunE: runDefaultGenerate,
}

// GetRootCmd returns the root command for embedding in other applications
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Display version at startup for all commands
	fmt.Printf("%s\n", version.GetDisplayVersion())
	cobra.CheckErr(rootCmd.Execute())
}

// runDefaultGenerate runs the full generation as the default command
func runDefaultGenerate(_ *cobra.Command, _ []string) error {
	return executeGenerate(allTargets(), dryRun)
}

func init() {
	// Global flags shared by every generation command
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: migratype.config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show detailed processing information")

	// Add the main command flags
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without creating files")
	rootCmd.Flags().StringVar(&inputFile, "file", "", "Generate from this single migration file instead of scanning the directory")
}
