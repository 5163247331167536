// pkg/distinfo/parser.go
package distinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ParseMetadata parses the header block of a METADATA file. Parsing stops
// at the first blank line, where the long description body starts.
func ParseMetadata(r io.Reader) (*Metadata, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	meta := &Metadata{}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}

		// Continuation line (starts with space or tab)
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(field) {
		case "Name":
			meta.Name = value
		case "Version":
			meta.Version = value
		case "Summary":
			meta.Summary = value
		case "Requires-Python":
			meta.RequiresPython = value
		case "Requires-Dist":
			meta.RequiresDist = append(meta.RequiresDist, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning metadata: %w", err)
	}
	if meta.Version == "" {
		return nil, fmt.Errorf("%w: no Version header", ErrMetadata)
	}
	return meta, nil
}

// DistName returns the distribution name encoded in a dist-info directory
// name: everything before the first '-'
func DistName(dir string) string {
	name, _, _ := strings.Cut(dir, "-")
	return name
}

// ReadMetadata parses <dir>/METADATA
func ReadMetadata(fs afero.Fs, dir string) (*Metadata, error) {
	path := filepath.Join(dir, MetadataFile)
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s missing", ErrMetadata, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	meta, err := ParseMetadata(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meta, nil
}

// ScanVersions reads the version of every distribution installed directly
// under sitePackages
func ScanVersions(fs afero.Fs, sitePackages string) (Versions, error) {
	entries, err := afero.ReadDir(fs, sitePackages)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", sitePackages, err)
	}

	versions := make(Versions)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), DirSuffix) {
			continue
		}
		meta, err := ReadMetadata(fs, filepath.Join(sitePackages, entry.Name()))
		if err != nil {
			return nil, err
		}
		versions[DistName(entry.Name())] = meta.Version
	}
	return versions, nil
}
