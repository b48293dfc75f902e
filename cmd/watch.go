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
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ocomsoft/migratype/internal/config"
)

// watchDebounce coalesces editor save bursts into a single regeneration.
const watchDebounce = 250 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever migration or query files change",
	Long: `Watch the migrations and queries directories and rerun the full
generation on every change.

A failed generation (a parse error in a half-written migration, for
example) is reported and the watcher keeps running, so the next save
picks it up again. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.Migrations.Directory); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Queries.Directory); err == nil {
		if err := watcher.Add(cfg.Queries.Directory); err != nil {
			return err
		}
	}

	// One generation never overlaps another; the debounce timer fires
	// on its own goroutine.
	var mu sync.Mutex
	regenerate := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := executeGenerate(allTargets(), false); err != nil {
			color.Red("Generation failed: %v", err)
		}
	}

	// Start from a consistent output state.
	regenerate()
	color.Cyan("Watching %s and %s for changes...", cfg.Migrations.Directory, cfg.Queries.Directory)

	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchedFile(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, regenerate)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			color.Red("Watch error: %v", err)
		}
	}
}

// watchedFile reports whether a change to the named file affects
// generation input.
func watchedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".sql", ".yaml", ".yml":
		return true
	}
	return filepath.Base(name) == ".migratypeignore"
}
