package codec

import (
	"errors"
	"math/big"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/layerslim/pkg/document"
)

const serviceModel = `{
  "version": "2.0",
  "metadata": {"apiVersion": "2006-03-01", "protocol": "rest-xml", "documentation": ""},
  "operations": {
    "GetObject": {"name": "GetObject", "http": {"method": "GET", "requestUri": "/{Bucket}/{Key+}", "responseCode": 200}},
    "ListBuckets": {"name": "ListBuckets", "deprecated": false, "tags": []}
  },
  "shapes": {"Size": {"type": "long", "min": -2147483649, "max": 9223372036854775807}},
  "retry": {"base": 0.05, "growth": 2.0, "attempts": 65536, "neg": -300, "none": null, "empty": {}},
  "unicode": "Łódź ☃ \u0000"
}`

func decoded(t *testing.T, src string) interface{} {
	t.Helper()
	v, err := document.Decode([]byte(src))
	require.NoError(t, err)
	n, err := document.Normalize(v)
	require.NoError(t, err)
	return n
}

func TestCodecsRoundTrip(t *testing.T) {
	want := decoded(t, serviceModel)

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			c, err := Lookup(name)
			require.NoError(t, err)

			data, err := c.Marshal(want)
			require.NoError(t, err)

			got, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestPickleHeaderAndStop(t *testing.T) {
	data, err := Pickle{}.Marshal(map[string]interface{}{"a": int64(1)})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x80, 0x02}, data[:2])
	assert.Equal(t, byte('.'), data[len(data)-1])
}

func TestPickleWritesUnicodeStrings(t *testing.T) {
	data, err := Pickle{}.Marshal("Łódź")
	require.NoError(t, err)

	want := append([]byte{0x80, 0x02, 'X', 7, 0, 0, 0}, "Łódź"...)
	want = append(want, '.')
	assert.Equal(t, want, data)
}

func TestPickleBigIntegers(t *testing.T) {
	huge, _ := new(big.Int).SetString("-340282366920938463463374607431768211457", 10)
	in := []interface{}{huge, int64(-1), int64(1) << 40, int64(-129)}

	data, err := Pickle{}.Marshal(in)
	require.NoError(t, err)

	got, err := Pickle{}.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

// CPython output of pickle.dumps({"a": [1, "x"], "b": None}, protocol=4)
var cpythonProtocol4 = []byte{
	0x80, 0x04, 0x95, 0x18, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x7d, 0x94, 0x28, 0x8c, 0x01, 'a', 0x94, 0x5d, 0x94, 0x28, 0x4b, 0x01,
	0x8c, 0x01, 'x', 0x94, 0x65, 0x8c, 0x01, 'b', 0x94, 0x4e, 0x75, 0x2e,
}

func TestPickleReadsCPythonOutput(t *testing.T) {
	got, err := Pickle{}.Unmarshal(cpythonProtocol4)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"a": []interface{}{int64(1), "x"},
		"b": nil,
	}, got)
}

func TestPickleRejectsGarbage(t *testing.T) {
	_, err := Pickle{}.Unmarshal([]byte{0x80, 0x02, 'c', 'o', 's'})
	require.Error(t, err)

	_, err = Pickle{}.Unmarshal([]byte{0x80, 0x02, 'X', 0xff})
	require.Error(t, err)
}

func TestPickleRejectsNonDocumentValues(t *testing.T) {
	for name, data := range map[string][]byte{
		"global":  []byte("\x80\x02cos\nsystem\n."),
		"bytes":   {0x80, 0x03, 'C', 0x01, 'a', '.'},
		"int key": {0x80, 0x02, '}', 'K', 0x01, 'K', 0x02, 's', '.'},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Pickle{}.Unmarshal(data)
			require.Error(t, err)
		})
	}
}

func TestMsgpackRejectsOversizedIntegers(t *testing.T) {
	huge, _ := new(big.Int).SetString("18446744073709551616", 10)
	_, err := Msgpack{}.Marshal([]interface{}{huge})
	require.Error(t, err)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCodec))
}

func TestConvertReplacesJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/s3/2006-03-01/service-2.json", []byte(serviceModel), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/s3/2006-03-01/paginators-1.json", []byte(`{"pagination": {}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/endpoints.json", []byte(`{"partitions": []}`), 0o644))

	n, err := Convert(fs, "data", Pickle{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, p := range []string{
		"data/s3/2006-03-01/service-2",
		"data/s3/2006-03-01/paginators-1",
		"data/endpoints",
	} {
		exists, err := afero.Exists(fs, p+".json")
		require.NoError(t, err)
		assert.False(t, exists, p)

		data, err := afero.ReadFile(fs, p+".pickle")
		require.NoError(t, err)
		_, err = Pickle{}.Unmarshal(data)
		require.NoError(t, err)
	}

	data, err := afero.ReadFile(fs, "data/s3/2006-03-01/service-2.pickle")
	require.NoError(t, err)
	got, err := Pickle{}.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, decoded(t, serviceModel), got)
}

func TestConvertStopsOnMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/bad.json", []byte(`{`), 0o644))

	_, err := Convert(fs, "data", Msgpack{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrMalformedDocument))
}

func TestBinaryPath(t *testing.T) {
	assert.Equal(t, "a/b/service-2.msgpack", BinaryPath("a/b/service-2.json", Msgpack{}))
}
