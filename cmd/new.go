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
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/naming"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/scanner"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create the next empty migration file",
	Long: `Create an empty migration file with the next free sequence number.

The filename is <sequence>_<name>.sql, where the sequence continues
from the highest existing migration. The name is folded to snake_case.

Examples:
  migratype new create_users
  migratype new "add email to users"`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	reporter := report.New(verbose || cfg.Output.Verbose)
	scannerInstance, err := scanner.New(fsio.NewOS(), cfg.Migrations.FilePattern, reporter)
	if err != nil {
		return err
	}

	sequence, err := scannerInstance.NextSequence(cfg.Migrations.Directory)
	if err != nil {
		return err
	}

	name := naming.Snake(args[0])
	if name == "" {
		return fmt.Errorf("migration name must not be empty")
	}

	filename := fmt.Sprintf("%03d_%s.sql", sequence, name)
	path := filepath.Join(cfg.Migrations.Directory, filename)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("migration file %s already exists", path)
	}

	content := fmt.Sprintf("-- %s\n", name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}

	color.Green("Created %s", path)
	return nil
}
