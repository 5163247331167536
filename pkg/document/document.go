// pkg/document/document.go
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"

	"github.com/arc-language/layerslim/pkg/scan"
)

// RedactedField is the key whose value Redact blanks out
const RedactedField = "documentation"

// Suffix selects the structured-text data files of a data root
const Suffix = ".json"

// ErrMalformedDocument indicates a data file that is not valid JSON
var ErrMalformedDocument = errors.New("malformed document")

// canonical encodes with sorted keys and no extra whitespace. Numbers are
// kept as their source literal so a second pass produces identical bytes.
var canonical = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// DataError reports a data file that could not be decoded
type DataError struct {
	Path string
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedDocument
func (e *DataError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// Decode parses a JSON document into maps, slices and scalars
func Decode(data []byte) (interface{}, error) {
	var v interface{}
	if err := canonical.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Encode serializes a document in canonical form
func Encode(v interface{}) ([]byte, error) {
	return canonical.Marshal(v)
}

// Compact returns the document unchanged; compaction happens in Encode.
func Compact(v interface{}) interface{} {
	return v
}

// Redact replaces the value of every "documentation" entry with an empty
// string, at any depth. Everything else is left as is.
func Redact(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if k == RedactedField {
				t[k] = ""
				continue
			}
			t[k] = Redact(child)
		}
		return t
	case []interface{}:
		for i, child := range t {
			t[i] = Redact(child)
		}
		return t
	default:
		return v
	}
}

// Transform is a pure rewrite of a decoded document
type Transform func(interface{}) interface{}

// RewriteFile decodes path, applies fn and writes it back canonically
func RewriteFile(fs afero.Fs, path string, fn Transform) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := Decode(data)
	if err != nil {
		return &DataError{Path: path, Err: err}
	}
	out, err := Encode(fn(v))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CompactFile rewrites a formatted JSON file as sorted-key compact JSON
func CompactFile(fs afero.Fs, path string) error {
	return RewriteFile(fs, path, Compact)
}

// RedactFile blanks out documentation strings in a JSON file
func RedactFile(fs afero.Fs, path string) error {
	return RewriteFile(fs, path, Redact)
}

// Walk applies fn to every JSON file under root and returns how many files
// it touched. The first failure stops the walk.
func Walk(fs afero.Fs, root string, fn func(afero.Fs, string) error) (int, error) {
	count := 0
	for path, err := range scan.Files(fs, root, Suffix) {
		if err != nil {
			return count, fmt.Errorf("scanning %s: %w", root, err)
		}
		if err := fn(fs, path); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Normalize replaces json.Number leaves with the values a Python runtime
// would get from json.load: a literal with a fraction or exponent becomes a
// float64, anything else an int64, or a *big.Int when it does not fit.
// Containers are copied.
func Normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			n, err := Normalize(child)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case json.Number:
		return normalizeNumber(string(t))
	default:
		return v, nil
	}
}

func normalizeNumber(s string) (interface{}, error) {
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing number %q: %w", s, err)
		}
		return f, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parsing number %q", s)
	}
	return b, nil
}

// ReadFile decodes and normalizes a JSON file
func ReadFile(fs afero.Fs, path string) (interface{}, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := Decode(data)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}
	return Normalize(v)
}
