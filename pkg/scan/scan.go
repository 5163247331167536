// pkg/scan/scan.go
package scan

import (
	"errors"
	"iter"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// errStop ends a walk when the consumer stops ranging
var errStop = errors.New("scan stopped")

// Files returns the paths of every regular file under root whose name ends
// with suffix. The sequence is lazy and can be ranged over more than once;
// each range walks the tree again. Paths come in traversal order.
//
// A walk error is yielded once, after which the sequence ends.
func Files(fs afero.Fs, root, suffix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), suffix) {
				return nil
			}
			if !yield(path, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield("", err)
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var paths []string
	for path, err := range seq {
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
