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
package writer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ocomsoft/migratype/internal/emitter"
	"github.com/ocomsoft/migratype/internal/fsio"
	"github.com/ocomsoft/migratype/internal/report"
)

// Writer puts emitted artifacts on disk. Generation is deterministic,
// so files are always overwritten in place; stale artifacts from
// removed tables are not cleaned up.
type Writer struct {
	fs       fsio.FileSystem
	reporter *report.Reporter
}

func New(fs fsio.FileSystem, reporter *report.Reporter) *Writer {
	return &Writer{
		fs:       fs,
		reporter: reporter,
	}
}

// WriteArtifacts writes every artifact into dir, creating the directory
// first.
func (w *Writer) WriteArtifacts(dir string, artifacts []emitter.Artifact) error {
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	for _, artifact := range artifacts {
		path := filepath.Join(dir, artifact.Filename)
		if err := w.fs.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		w.reporter.Verbosef("Written %s", path)
	}

	return nil
}

// WriteArtifact writes one artifact to an explicit path, for outputs
// that are a single file rather than a directory.
func (w *Writer) WriteArtifact(path string, artifact emitter.Artifact) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := w.fs.WriteFile(path, []byte(artifact.Content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.reporter.Verbosef("Written %s", path)

	return nil
}

// Preview renders the artifacts as they would be written, for dry runs.
func (w *Writer) Preview(artifacts []emitter.Artifact) string {
	var sb strings.Builder
	for i, artifact := range artifacts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("--- %s ---\n", artifact.Filename))
		sb.WriteString(artifact.Content)
	}
	return sb.String()
}
