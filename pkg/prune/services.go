// pkg/prune/services.go
package prune

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Services removes every service directory directly under root whose name
// is not in allow, and returns the removed names sorted. Only depth-1
// directories are considered: api-version directories further down are
// never looked at, even when their name matches a removed service.
//
// An empty allow list leaves the tree untouched.
func Services(fs afero.Fs, root string, allow []string) ([]string, error) {
	if len(allow) == 0 {
		return nil, nil
	}
	keep := make(map[string]bool, len(allow))
	for _, name := range allow {
		keep[name] = true
	}

	var doomed []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		// Only children of the root itself get here, see SkipDir below.
		if parent := filepath.Dir(rel); parent != "." {
			return filepath.SkipDir
		}
		if !keep[info.Name()] {
			doomed = append(doomed, info.Name())
		}
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	for _, name := range doomed {
		if err := fs.RemoveAll(filepath.Join(root, name)); err != nil {
			return nil, fmt.Errorf("removing service %s: %w", name, err)
		}
	}

	sort.Strings(doomed)
	return doomed, nil
}
