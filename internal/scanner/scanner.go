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
package scanner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ocomsoft/migratype/internal/errors"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/report"
	"github.com/ocomsoft/migratype/internal/types"
)

// IgnoreFilename lists files the scanner must not treat as inputs,
// using gitignore syntax. It lives in the scanned directory.
const IgnoreFilename = ".migratypeignore"

// Scanner discovers migration and query input files.
type Scanner struct {
	fs       fsio.FileSystem
	pattern  *regexp.Regexp
	reporter *report.Reporter
}

// New creates a scanner. The pattern must contain one capture group
// holding the numeric sequence key.
func New(fs fsio.FileSystem, pattern string, reporter *report.Reporter) (*Scanner, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid migration filename pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("migration filename pattern %q needs a capture group for the sequence number", pattern)
	}
	return &Scanner{
		fs:       fs,
		pattern:  re,
		reporter: reporter,
	}, nil
}

// ScanMigrations reads every migration file in dir, ordered by
// sequence key. Every .sql file must match the filename pattern unless
// the ignore file excludes it; sequence keys must be unique.
func (s *Scanner) ScanMigrations(dir string) ([]types.MigrationFile, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	ignorer := s.loadIgnore(dir)
	seen := make(map[int]string)

	var files []types.MigrationFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".sql") {
			continue
		}
		if ignorer != nil && ignorer.MatchesPath(name) {
			s.reporter.Verbosef("  Ignoring %s (%s)", name, IgnoreFilename)
			continue
		}

		sequence, err := s.sequenceFor(name)
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[sequence]; ok {
			return nil, errors.NewSequenceError(filepath.Join(dir, name),
				fmt.Sprintf("sequence %d collides with %s", sequence, previous))
		}
		seen[sequence] = name

		path := filepath.Join(dir, name)
		content, err := s.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", path, err)
		}

		files = append(files, types.MigrationFile{
			Sequence: sequence,
			Name:     name,
			Path:     path,
			SQL:      string(content),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Sequence < files[j].Sequence
	})

	s.reporter.Verbosef("  Found %d migration file(s) in %s", len(files), dir)
	return files, nil
}

// ReadMigration loads a single migration file, for single-file
// overrides. The filename must still carry a parseable sequence key.
func (s *Scanner) ReadMigration(path string) (types.MigrationFile, error) {
	name := filepath.Base(path)
	sequence, err := s.sequenceFor(name)
	if err != nil {
		return types.MigrationFile{}, err
	}

	content, err := s.fs.ReadFile(path)
	if err != nil {
		return types.MigrationFile{}, fmt.Errorf("failed to read migration %s: %w", path, err)
	}

	return types.MigrationFile{
		Sequence: sequence,
		Name:     name,
		Path:     path,
		SQL:      string(content),
	}, nil
}

// ScanQueryFiles lists the query definition files in dir, sorted by
// name. A missing directory is not an error; query files are optional.
func (s *Scanner) ScanQueryFiles(dir string) ([]string, error) {
	if _, err := s.fs.Stat(dir); err != nil {
		s.reporter.Verbosef("  No queries directory at %s", dir)
		return nil, nil
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries directory %s: %w", dir, err)
	}

	ignorer := s.loadIgnore(dir)

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if ignorer != nil && ignorer.MatchesPath(name) {
			s.reporter.Verbosef("  Ignoring %s (%s)", name, IgnoreFilename)
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

// NextSequence returns the sequence number a new migration in dir
// should use. Files that do not match the pattern are skipped here;
// scaffolding should not fail on stray files.
func (s *Scanner) NextSequence(dir string) (int, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	maxSequence := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := s.pattern.FindStringSubmatch(entry.Name())
		if len(matches) < 2 {
			continue
		}
		if num, err := strconv.Atoi(matches[1]); err == nil && num > maxSequence {
			maxSequence = num
		}
	}

	return maxSequence + 1, nil
}

func (s *Scanner) sequenceFor(name string) (int, error) {
	matches := s.pattern.FindStringSubmatch(name)
	if len(matches) < 2 {
		return 0, errors.NewSequenceError(name,
			fmt.Sprintf("filename does not match the migration pattern %s", s.pattern.String()))
	}
	sequence, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, errors.NewSequenceError(name,
			fmt.Sprintf("cannot parse sequence number %q", matches[1]))
	}
	return sequence, nil
}

func (s *Scanner) loadIgnore(dir string) *ignore.GitIgnore {
	data, err := s.fs.ReadFile(filepath.Join(dir, IgnoreFilename))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}
