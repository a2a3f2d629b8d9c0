package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalNumbers(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, UnmarshalNumbers([]byte(`{"a":[1,2.5],"big":9007199254740993}`), &v))

	a := v["a"].([]interface{})
	assert.Equal(t, Number("1"), a[0])
	assert.Equal(t, Number("2.5"), a[1])
	assert.Equal(t, Number("9007199254740993"), v["big"])
}

func TestUnmarshal_Floats(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, Unmarshal([]byte(`{"a":1}`), &v))
	assert.Equal(t, 1.0, v["a"])
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, map[string]string{"k": "<v>"}, ""))
	assert.Equal(t, "{\"k\":\"<v>\"}\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, map[string]int{"k": 1}, "  "))
	assert.Equal(t, "{\n  \"k\": 1\n}\n", buf.String())
}

func TestNewDecoder_Stream(t *testing.T) {
	dec := NewDecoder(strings.NewReader(`{"n":1} {"n":2}`))
	var got []interface{}
	for dec.More() {
		var v map[string]interface{}
		require.NoError(t, dec.Decode(&v))
		got = append(got, v["n"])
	}
	assert.Equal(t, []interface{}{Number("1"), Number("2")}, got)
}
