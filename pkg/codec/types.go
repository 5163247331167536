// pkg/codec/types.go
package codec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCodec indicates a codec name that is not registered
var ErrUnknownCodec = errors.New("unknown codec")

// Codec is a binary serialization both this tool and the layer's Python
// runtime understand.
type Codec interface {
	// Name is the codec identifier used in config and flags
	Name() string

	// Ext is the file extension that replaces ".json"
	Ext() string

	// Marshal encodes a normalized document
	Marshal(v interface{}) ([]byte, error)

	// Unmarshal decodes data produced by Marshal
	Unmarshal(data []byte) (interface{}, error)

	// Python describes how the patched loader reads the files back
	Python() PythonBinding
}

// PythonBinding is the Python side of a codec
type PythonBinding struct {
	Import       string   // statement inserted next to the loader's imports
	LoaderClass  string   // name of the inserted file loader class
	Load         string   // expression that decodes the open file object `fp`
	Requirements []string // extra distributions the layer must ship
}

var codecs = map[string]Codec{
	"pickle":  Pickle{},
	"msgpack": Msgpack{},
}

// Lookup returns the codec registered under name
func Lookup(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownCodec, name, Available())
	}
	return c, nil
}

// Available lists registered codec names
func Available() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
