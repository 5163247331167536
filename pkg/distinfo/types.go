// pkg/distinfo/types.go
package distinfo

import (
	"errors"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

const (
	// DirSuffix marks an installed distribution's metadata directory
	DirSuffix = ".dist-info"

	// MetadataFile holds the core metadata headers
	MetadataFile = "METADATA"
)

// ErrMetadata indicates a dist-info directory without usable metadata
var ErrMetadata = errors.New("invalid distribution metadata")

// Metadata holds the core metadata fields the layer build reports
type Metadata struct {
	Name           string
	Version        string
	Summary        string
	RequiresPython string
	RequiresDist   []string
}

// Versions maps distribution names to installed versions
type Versions map[string]string

// Names returns the distribution names in sorted order
func (v Versions) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the map as a sorted-key JSON object with ", " and ": "
// separators, the form layer descriptions carry
func (v Versions) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range v.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		key, _ := jsoniter.MarshalToString(name)
		val, _ := jsoniter.MarshalToString(v[name])
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(val)
	}
	b.WriteByte('}')
	return b.String()
}
