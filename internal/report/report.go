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
package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/ocomsoft/migratype/internal/errors"
)

// Reporter carries run verbosity and accumulates non-fatal warnings so
// they can be printed together at the end of a run. It is passed
// explicitly to every component; nothing in migratype logs through a
// package-level global.
type Reporter struct {
	verbose bool
	out     io.Writer

	mu       sync.Mutex
	warnings []errors.Warning
}

// New creates a reporter writing to stdout.
func New(verbose bool) *Reporter {
	return &Reporter{verbose: verbose, out: os.Stdout}
}

// NewWithOutput creates a reporter writing to the given writer.
func NewWithOutput(verbose bool, out io.Writer) *Reporter {
	return &Reporter{verbose: verbose, out: out}
}

// Verbose reports whether verbose output is enabled.
func (r *Reporter) Verbose() bool {
	return r.verbose
}

// Verbosef prints a progress line when verbose output is enabled.
func (r *Reporter) Verbosef(format string, args ...interface{}) {
	if !r.verbose {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Infof prints an informational line.
func (r *Reporter) Infof(format string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(r.out, format+"\n", args...)
}

// Successf prints a success line.
func (r *Reporter) Successf(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(r.out, format+"\n", args...)
}

// Errorf prints an error line.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(r.out, format+"\n", args...)
}

// Warn records a non-fatal warning for the end-of-run summary.
func (r *Reporter) Warn(w errors.Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

// Warnings returns the warnings collected so far.
func (r *Reporter) Warnings() []errors.Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]errors.Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// HasWarnings reports whether any warnings were collected.
func (r *Reporter) HasWarnings() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings) > 0
}

// Summary prints every collected warning. Generation still succeeds
// when warnings are present; the summary exists so they are not lost
// in verbose output.
func (r *Reporter) Summary() {
	warnings := r.Warnings()
	if len(warnings) == 0 {
		return
	}
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(r.out, "%d warning(s):\n", len(warnings))
	for _, w := range warnings {
		yellow.Fprintf(r.out, "  - %s\n", w.Warning())
	}
}
