// pkg/prune/cruft.go
package prune

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// CruftReport counts what Cruft removed
type CruftReport struct {
	CacheDirs     int `yaml:"cache_dirs"`
	CompiledFiles int `yaml:"compiled_files"`
	ExampleFiles  int `yaml:"example_files"`
}

// Total is the number of removed entries
func (r *CruftReport) Total() int {
	return r.CacheDirs + r.CompiledFiles + r.ExampleFiles
}

// Cruft deletes bytecode caches, compiled files and stale example payloads
// under root. Candidates are collected first, without descending into cache
// directories, then removed deepest first so a parent is never removed
// before its children have been dealt with.
func Cruft(fs afero.Fs, root string) (*CruftReport, error) {
	report := &CruftReport{}
	var found []string

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == CacheDirName && path != root {
				found = append(found, path)
				report.CacheDirs++
				return filepath.SkipDir
			}
			return nil
		}
		switch {
		case strings.HasSuffix(info.Name(), CompiledSuffix):
			report.CompiledFiles++
		case strings.HasSuffix(info.Name(), StaleExampleSuffix):
			report.ExampleFiles++
		default:
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	// Walk order puts children after their parents, so reversing it is deepest first.
	for i := len(found) - 1; i >= 0; i-- {
		if err := fs.RemoveAll(found[i]); err != nil {
			return nil, fmt.Errorf("removing %s: %w", found[i], err)
		}
	}

	return report, nil
}
