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
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ocomsoft/migratype/internal/config"
	"github.com/ocomsoft/migratype/internal/types"
)

var (
	initFramework string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the project layout and config file",
	Long: `Initialize a project for migratype.

This command:
- Creates the migrations/ directory if it doesn't exist
- Creates the queries/ directory for hand-written query files
- Creates migratype.config.yaml with the default settings
- Creates a starter 001_initial.sql when no migration exists yet

Use this command once when adding migratype to a project.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFramework, "framework", "plain",
		"Service framework to configure (plain, react, angular)")
}

func runInit(_ *cobra.Command, _ []string) error {
	if verbose {
		color.Cyan("Initializing migratype project")
		color.Cyan("==============================")
	}

	// Validate the framework before writing it into the config.
	if _, err := types.ParseFramework(initFramework); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Services.Framework = initFramework

	// Create input directories
	if err := os.MkdirAll(cfg.Migrations.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}
	if err := os.MkdirAll(cfg.Queries.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create queries directory: %w", err)
	}

	// Create config file if it doesn't exist
	configPath := config.GetConfigPath()
	if !config.ConfigExists() {
		if err := cfg.Save(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		if verbose {
			color.Green("Created config file: %s", configPath)
		}
	} else if verbose {
		color.Yellow("Config file already exists: %s", configPath)
	}

	// Create a starter migration when the directory is empty
	starterPath := filepath.Join(cfg.Migrations.Directory, "001_initial.sql")
	created, err := createStarterMigration(cfg.Migrations.Directory, starterPath)
	if err != nil {
		return err
	}

	color.Green("Project initialized")
	color.Cyan("  - Migrations directory: %s", cfg.Migrations.Directory)
	color.Cyan("  - Queries directory: %s", cfg.Queries.Directory)
	color.Cyan("  - Config file: %s", configPath)
	if created {
		color.Cyan("  - Starter migration: %s", starterPath)
	}
	color.Blue("\nNext steps:")
	color.White("  1. Write your schema into %s", starterPath)
	color.White("  2. Run 'migratype' to generate the TypeScript data layer")
	color.White("  3. Add further migrations with 'migratype new <name>'")

	return nil
}

// createStarterMigration writes the initial migration template unless
// the directory already holds any .sql file.
func createStarterMigration(dir, path string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			return false, nil
		}
	}

	template := `-- Initial schema.
-- Each statement ends with a semicolon. CREATE TABLE, CREATE INDEX,
-- ALTER TABLE and DROP TABLE shape the generated code; every other
-- statement (seed INSERTs etc.) is carried into the migration runner
-- unchanged.

-- CREATE TABLE todos (
--     id INTEGER PRIMARY KEY,
--     title TEXT NOT NULL,
--     done BOOLEAN NOT NULL DEFAULT 0
-- );
`
	if err := os.WriteFile(path, []byte(template), 0644); err != nil {
		return false, fmt.Errorf("failed to write starter migration: %w", err)
	}
	return true, nil
}
