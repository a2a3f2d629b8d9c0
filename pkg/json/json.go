// Package json provides JSON serialization backed by goccy/go-json.
//
// Decoding keeps numbers as json.Number so that integer precision survives
// until the table normalises values to float64.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"
)

// Number is a JSON number literal as decoded by Decode and UnmarshalNumbers
type Number = gojson.Number

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// NewDecoder returns a decoder that keeps numbers as Number
func NewDecoder(r io.Reader) *gojson.Decoder {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	return dec
}

// UnmarshalNumbers decodes data into v keeping numbers as Number
func UnmarshalNumbers(data []byte, v interface{}) error {
	return NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Encode writes v to w followed by a newline. A non-empty indent pretty
// prints the output.
func Encode(w io.Writer, v interface{}, indent string) error {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(v)
}
