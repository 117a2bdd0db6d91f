// Package json decodes JSON bytes into the any-shaped values schema nodes
// consume (map[string]any / []any / json.Number / string / bool / nil).
package json

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"
)

// Decode decodes a single JSON document. Numbers are preserved as
// json.Number to avoid float64 precision loss.
func Decode(data []byte) (any, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader decodes a single JSON document from r.
func DecodeReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// reject trailing content after the first document
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, errors.New("json: trailing data after top-level value")
	}
	return v, nil
}
