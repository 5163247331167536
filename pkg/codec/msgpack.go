// pkg/codec/msgpack.go
package codec

import (
	"fmt"
	"math"
	"math/big"

	"github.com/tinylib/msgp/msgp"
)

// Msgpack stores data files as MessagePack. The layer then has to ship the
// msgpack distribution, which the installer adds to its request.
type Msgpack struct{}

// Name implements Codec
func (Msgpack) Name() string { return "msgpack" }

// Ext implements Codec
func (Msgpack) Ext() string { return ".msgpack" }

// Python implements Codec
func (Msgpack) Python() PythonBinding {
	return PythonBinding{
		Import:       "import msgpack",
		LoaderClass:  "MsgpackFileLoader",
		Load:         "msgpack.unpack(fp, raw=False)",
		Requirements: []string{"msgpack"},
	}
}

// Marshal implements Codec
func (Msgpack) Marshal(v interface{}) ([]byte, error) {
	if err := checkMsgpackRange(v); err != nil {
		return nil, err
	}
	return msgp.AppendIntf(nil, v)
}

// Unmarshal implements Codec
func (Msgpack) Unmarshal(data []byte) (interface{}, error) {
	v, rest, err := msgp.ReadIntfBytes(data)
	if err != nil {
		return nil, fmt.Errorf("msgpack: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("msgpack: %d trailing bytes", len(rest))
	}
	return widen(v), nil
}

func checkMsgpackRange(v interface{}) error {
	switch t := v.(type) {
	case *big.Int:
		return fmt.Errorf("msgpack: integer %s out of range", t)
	case map[string]interface{}:
		for _, child := range t {
			if err := checkMsgpackRange(child); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, child := range t {
			if err := checkMsgpackRange(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// widen maps decoded scalars back onto the normalized document types
func widen(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			t[k] = widen(child)
		}
		return t
	case []interface{}:
		for i, child := range t {
			t[i] = widen(child)
		}
		return t
	case float32:
		return float64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return new(big.Int).SetUint64(t)
	default:
		return v
	}
}
