// pkg/codec/pickle.go
package codec

import (
	"bytes"
	"fmt"
	"math/big"

	ogórek "github.com/kisielk/og-rek"
)

const (
	pickleProtocol   = 2
	pickleLoaderName = "PickleFileLoader"
)

// Pickle writes pickle protocol 2, readable by any Python 3 without extra
// packages. Strings are always written as unicode so Python 3 loads them as
// str. Dict entries follow Go map order, so output bytes are not stable
// between runs.
type Pickle struct{}

// Name implements Codec
func (Pickle) Name() string { return "pickle" }

// Ext implements Codec
func (Pickle) Ext() string { return ".pickle" }

// Python implements Codec
func (Pickle) Python() PythonBinding {
	return PythonBinding{
		Import:      "import pickle",
		LoaderClass: pickleLoaderName,
		Load:        "pickle.load(fp)",
	}
}

// Marshal implements Codec
func (Pickle) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := ogórek.NewEncoderWithConfig(&buf, &ogórek.EncoderConfig{
		Protocol:      pickleProtocol,
		StrictUnicode: true,
	})
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("pickle: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal implements Codec. Any protocol is accepted as long as the
// stream only holds JSON-shaped values.
func (Pickle) Unmarshal(data []byte) (interface{}, error) {
	v, err := ogórek.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("pickle: %w", err)
	}
	return thaw(v)
}

// thaw maps decoded pickle values onto the normalized document types
func thaw(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case ogórek.None, nil:
		return nil, nil
	case bool, string, int64, float64:
		return t, nil
	case *big.Int:
		if t.IsInt64() {
			return t.Int64(), nil
		}
		return t, nil
	case []interface{}:
		return thawList(t)
	case ogórek.Tuple:
		return thawList(t)
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("pickle: dict key %v (%T) is not a string", k, k)
			}
			val, err := thaw(item)
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("pickle: unsupported value %T", v)
	}
}

func thawList(items []interface{}) (interface{}, error) {
	out := make([]interface{}, len(items))
	for i, item := range items {
		val, err := thaw(item)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}
