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
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ocomsoft/migratype/internal/analyzer"
	"github.com/ocomsoft/migratype/internal/config"
	"github.com/ocomsoft/migratype/internal/emitter"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/parser"
	"github.com/ocomsoft/migratype/internal/queries"
	"github.com/ocomsoft/migratype/internal/reducer"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/scanner"
	"github.com/ocomsoft/migratype/internal/types"
	"github.com/ocomsoft/migratype/internal/writer"
)

// targets selects which artifact groups a run generates.
type targets struct {
	models     bool
	migrations bool
	services   bool
	dexie      bool

	// dexieOptional marks the dexie target as config-gated: the all
	// command skips it when dexie.enabled is false, while the dexie
	// command always emits it.
	dexieOptional bool
}

func allTargets() targets {
	return targets{models: true, migrations: true, services: true, dexie: true, dexieOptional: true}
}

// schemaLoad bundles everything the pipeline derives from the
// migration directory.
type schemaLoad struct {
	scanner  *scanner.Scanner
	parsed   []parser.ParsedMigration
	model    *types.SchemaModel
	analysis *analyzer.Analysis
}

// loadSchema scans, parses, folds and analyzes the migration
// directory, or just the file named by --file. Every command that
// needs the cumulative schema goes through here so the derivation is
// identical regardless of what is done with it afterwards.
func loadSchema(cfg *config.Config, fs fsio.FileSystem, reporter *report.Reporter) (*schemaLoad, error) {
	scannerInstance, err := scanner.New(fs, cfg.Migrations.FilePattern, reporter)
	if err != nil {
		return nil, err
	}
	parserInstance := parser.New(reporter)

	var files []types.MigrationFile
	if inputFile != "" {
		reporter.Verbosef("1. Reading migration file %s...", inputFile)

		file, err := scannerInstance.ReadMigration(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration: %w", err)
		}
		files = []types.MigrationFile{file}
	} else {
		reporter.Verbosef("1. Scanning migration files in %s...", cfg.Migrations.Directory)

		files, err = scannerInstance.ScanMigrations(cfg.Migrations.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to scan migrations: %w", err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migration files found in %s", cfg.Migrations.Directory)
	}

	reporter.Verbosef("\n2. Parsing %d migration file(s)...", len(files))

	// Files parse independently, so fan out. Results land by index to
	// keep migration order authoritative.
	parsed := make([]parser.ParsedMigration, len(files))
	var group errgroup.Group
	for i, file := range files {
		group.Go(func() error {
			pm, err := parserInstance.Parse(file)
			if err != nil {
				return err
			}
			parsed[i] = *pm
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	reporter.Verbosef("\n3. Folding operations into the schema model...")

	var ops []types.Operation
	for _, pm := range parsed {
		ops = append(ops, pm.Operations...)
	}
	model, err := reducer.New().Reduce(ops)
	if err != nil {
		return nil, err
	}
	reporter.Verbosef("   Schema has %d table(s) after %d operation(s)", len(model.TableNames()), len(ops))

	reporter.Verbosef("\n4. Analyzing references...")

	analysis, err := analyzer.New(reporter).Analyze(model)
	if err != nil {
		return nil, err
	}
	reporter.Verbosef("   Table order: %s", strings.Join(analysis.TableOrder, ", "))

	return &schemaLoad{
		scanner:  scannerInstance,
		parsed:   parsed,
		model:    model,
		analysis: analysis,
	}, nil
}

// executeGenerate runs the full pipeline and emits the selected targets.
// Every generation command funnels through here so the schema
// derivation is identical regardless of which artifacts are requested.
func executeGenerate(t targets, dryRun bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if t.dexieOptional && !cfg.Dexie.Enabled {
		t.dexie = false
	}

	reporter := report.New(verbose || cfg.Output.Verbose)
	fs := fsio.NewOS()

	load, err := loadSchema(cfg, fs, reporter)
	if err != nil {
		return err
	}
	model, analysis, parsed := load.model, load.analysis, load.parsed

	var queryFiles []*queries.File
	if t.services {
		reporter.Verbosef("\n5. Loading query files from %s...", cfg.Queries.Directory)

		paths, err := load.scanner.ScanQueryFiles(cfg.Queries.Directory)
		if err != nil {
			return err
		}
		queryFiles, err = queries.NewLoader(fs, reporter).LoadAll(paths)
		if err != nil {
			return err
		}
	}

	reporter.Verbosef("\n6. Emitting artifacts...")

	w := writer.New(fs, reporter)
	written := 0

	if t.models {
		artifacts, err := emitter.NewModelEmitter().Emit(model, analysis.TableOrder)
		if err != nil {
			return fmt.Errorf("failed to emit models: %w", err)
		}
		if dryRun {
			fmt.Print(w.Preview(artifacts))
		} else if err := w.WriteArtifacts(cfg.Output.ModelsDir, artifacts); err != nil {
			return err
		}
		written += len(artifacts)
	}

	if t.migrations {
		artifact, err := emitter.NewMigrationEmitter().Emit(parsed)
		if err != nil {
			return fmt.Errorf("failed to emit migration runner: %w", err)
		}
		path := cfg.Output.MigrationsFile
		if outputFile != "" {
			path = outputFile
		}
		if dryRun {
			fmt.Print(w.Preview([]emitter.Artifact{artifact}))
		} else if err := w.WriteArtifact(path, artifact); err != nil {
			return err
		}
		written++
	}

	if t.services {
		framework, err := types.ParseFramework(cfg.Services.Framework)
		if err != nil {
			return err
		}
		opts := emitter.ServiceOptions{
			Framework:       framework,
			Hooks:           cfg.Services.Hooks,
			ModelImportBase: relImportBase(cfg.Output.ServicesDir, cfg.Output.ModelsDir),
		}
		artifacts, err := emitter.NewServiceEmitter(reporter).Emit(model, queryFiles, analysis.TableOrder, opts)
		if err != nil {
			return fmt.Errorf("failed to emit services: %w", err)
		}
		if dryRun {
			fmt.Print(w.Preview(artifacts))
		} else if err := w.WriteArtifacts(cfg.Output.ServicesDir, artifacts); err != nil {
			return err
		}
		written += len(artifacts)
	}

	if t.dexie {
		path := cfg.Output.DexieFile
		if outputFile != "" {
			path = outputFile
		}
		opts := emitter.DexieOptions{
			DatabaseName:    cfg.Dexie.DatabaseName,
			ClassName:       cfg.Dexie.ClassName,
			ModelImportBase: relImportBase(filepath.Dir(path), cfg.Output.ModelsDir),
		}
		artifact, err := emitter.NewDexieEmitter().Emit(model.Operations, model, analysis.TableOrder, opts)
		if err != nil {
			return fmt.Errorf("failed to emit dexie schema: %w", err)
		}
		if dryRun {
			fmt.Print(w.Preview([]emitter.Artifact{artifact}))
		} else if err := w.WriteArtifact(path, artifact); err != nil {
			return err
		}
		written++
	}

	reporter.Summary()

	if dryRun {
		return nil
	}
	reporter.Successf("Generated %d file(s)", written)
	return nil
}

// relImportBase computes the TypeScript module path from one output
// directory to another. The result always starts with ./ or ../ so it
// stays a relative import specifier.
func relImportBase(fromDir, toDir string) string {
	rel, err := filepath.Rel(fromDir, toDir)
	if err != nil {
		return filepath.ToSlash(toDir)
	}
	base := filepath.ToSlash(rel)
	if !strings.HasPrefix(base, ".") {
		base = "./" + base
	}
	return base
}
