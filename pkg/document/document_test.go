package document

import (
	"errors"
	"math/big"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formatted = `{
  "version": "2.0",
  "metadata": {
    "apiVersion": "2006-03-01",
    "documentation": "<p>top level</p>"
  },
  "operations": {
    "GetObject": {
      "name": "GetObject",
      "documentation": "<p>Retrieves objects &amp; more</p>",
      "input": {"shape": "GetObjectRequest"},
      "errors": [
        {"shape": "NoSuchKey", "documentation": {"nested": ["a", "b"]}},
        {"shape": "InvalidObjectState"}
      ]
    }
  },
  "limits": [1, 2.50, 1e3, 18446744073709551616, -7],
  "documentation": null,
  "deprecated": false
}`

func TestRedactBlanksDocumentationAtAnyDepth(t *testing.T) {
	v, err := Decode([]byte(formatted))
	require.NoError(t, err)

	out := Redact(v).(map[string]interface{})

	assert.Equal(t, "", out["documentation"])
	md := out["metadata"].(map[string]interface{})
	assert.Equal(t, "", md["documentation"])
	assert.Equal(t, "2006-03-01", md["apiVersion"])

	op := out["operations"].(map[string]interface{})["GetObject"].(map[string]interface{})
	assert.Equal(t, "", op["documentation"])
	assert.Equal(t, "GetObject", op["name"])

	errs := op["errors"].([]interface{})
	assert.Equal(t, "", errs[0].(map[string]interface{})["documentation"])
	assert.Equal(t, "NoSuchKey", errs[0].(map[string]interface{})["shape"])
	assert.Equal(t, map[string]interface{}{"shape": "InvalidObjectState"}, errs[1])
	assert.Equal(t, false, out["deprecated"])
}

func TestRedactIsIdempotent(t *testing.T) {
	v, err := Decode([]byte(formatted))
	require.NoError(t, err)

	once, err := Encode(Redact(v))
	require.NoError(t, err)

	again, err := Decode(once)
	require.NoError(t, err)
	twice, err := Encode(Redact(again))
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestRedactScalarsPassThrough(t *testing.T) {
	assert.Equal(t, "documentation", Redact("documentation"))
	assert.Nil(t, Redact(nil))
	assert.Equal(t, []interface{}{"documentation"}, Redact([]interface{}{"documentation"}))
}

func TestCompactRoundTripsAndIsIdempotent(t *testing.T) {
	v, err := Decode([]byte(formatted))
	require.NoError(t, err)

	once, err := Encode(Compact(v))
	require.NoError(t, err)
	assert.NotContains(t, string(once), "\n")
	assert.NotContains(t, string(once), ": ")
	assert.Contains(t, string(once), `"limits":[1,2.50,1e3,18446744073709551616,-7]`)
	assert.Contains(t, string(once), "&amp;")

	back, err := Decode(once)
	require.NoError(t, err)
	want, err := Normalize(v)
	require.NoError(t, err)
	got, err := Normalize(back)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	twice, err := Encode(Compact(back))
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestCompactSortsKeys(t *testing.T) {
	v, err := Decode([]byte(`{"b": 1, "a": {"z": 0, "c": [ {"y": 1, "x": 2} ]}}`))
	require.NoError(t, err)

	out, err := Encode(Compact(v))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":[{"x":2,"y":1}],"z":0},"b":1}`, string(out))
}

func TestNormalizeNumbers(t *testing.T) {
	v, err := Decode([]byte(`[1, 2.0, 3e2, -4, 18446744073709551616]`))
	require.NoError(t, err)

	got, err := Normalize(v)
	require.NoError(t, err)

	huge, _ := new(big.Int).SetString("18446744073709551616", 10)
	assert.Equal(t, []interface{}{int64(1), 2.0, 300.0, int64(-4), huge}, got)
}

func TestFileOperations(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/s3/2006-03-01/service-2.json", []byte(formatted), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/iam/2010-05-08/service-2.json", []byte(`{"documentation": "x", "b": [ 1 ]}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/iam/README", []byte("not json"), 0o644))

	n, err := Walk(fs, "data", CompactFile)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Walk(fs, "data", RedactFile)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := afero.ReadFile(fs, "data/iam/2010-05-08/service-2.json")
	require.NoError(t, err)
	assert.Equal(t, `{"b":[1],"documentation":""}`, string(data))

	data, err = afero.ReadFile(fs, "data/iam/README")
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

func TestMalformedDocumentIsDataError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/s3/broken.json", []byte(`{"a": `), 0o644))

	_, err := Walk(fs, "data", CompactFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))

	var de *DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "data/s3/broken.json", de.Path)
}

func TestReadFileNormalizes(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.json", []byte(`{"n": 3, "f": 0.5}`), 0o644))

	v, err := ReadFile(fs, "a.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"n": int64(3), "f": 0.5}, v)
}
