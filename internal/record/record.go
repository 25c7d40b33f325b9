// Package record loads a JSON document from raw bytes and rewrites single string fields.
//
// Updates are applied to the original bytes so that every other field keeps its key order,
// number formatting and escaping. Serialization then only re-indents the document.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var (
	// ErrNotObject is returned when the document top level is not a JSON object.
	ErrNotObject = errors.New("document is not a JSON object")

	// ErrFieldMissing is returned when the requested field does not exist.
	ErrFieldMissing = errors.New("field not found")

	// ErrFieldType is returned when the requested field is not a string.
	ErrFieldType = errors.New("field is not a string")

	// ErrDuplicateField is returned when a key of the requested path appears more than once in its object.
	ErrDuplicateField = errors.New("field is defined more than once")
)

// Record is a parsed JSON object together with its source bytes.
type Record struct {
	raw []byte
	doc map[string]any
}

// Parse parses data as a JSON document whose top level is an object.
func Parse(data []byte) (*Record, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}

	return &Record{raw: bytes.TrimSpace(data), doc: doc}, nil
}

// Value returns the value stored at path, as decoded by the parser.
// path is a dot separated list of object keys, like "devName" or "meta.devName".
//
// Every key of path must be unique within its object, otherwise ErrDuplicateField is returned.
func (r *Record) Value(path string) (any, error) {
	if err := r.checkUnique(path); err != nil {
		return nil, err
	}

	results := expr(path).Get(r.doc)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrFieldMissing, path)
	}
	return results[0], nil
}

// String returns the string stored at path.
func (r *Record) String(path string) (string, error) {
	v, err := r.Value(path)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q holds %s", ErrFieldType, path, typeName(v))
	}
	return s, nil
}

// SetString replaces the string stored at path with value.
// The field must already exist and hold a string.
func (r *Record) SetString(path, value string) error {
	if _, err := r.String(path); err != nil {
		return err
	}

	encoded, err := encodeString(value)
	if err != nil {
		return err
	}

	raw, err := jsonparser.Set(r.raw, encoded, keys(path)...)
	if err != nil {
		return fmt.Errorf("could not update %q: %v", path, err)
	}

	if err := expr(path).Set(r.doc, value); err != nil {
		return fmt.Errorf("could not update %q: %v", path, err)
	}
	r.raw = raw

	return nil
}

// Marshal returns the document indented with indent spaces per level.
// An indent of 0 returns the compact form. No trailing newline is added.
func (r *Record) Marshal(indent int) ([]byte, error) {
	var buf bytes.Buffer
	if indent <= 0 {
		if err := json.Compact(&buf, r.raw); err != nil {
			return nil, fmt.Errorf("could not serialize document: %v", err)
		}
		return buf.Bytes(), nil
	}

	if err := json.Indent(&buf, r.raw, "", strings.Repeat(" ", indent)); err != nil {
		return nil, fmt.Errorf("could not serialize document: %v", err)
	}
	return buf.Bytes(), nil
}

// checkUnique walks path through the raw document and fails if a key along it is repeated.
// The parsed document keeps the last occurrence of a key and raw updates hit the first one.
func (r *Record) checkUnique(path string) error {
	obj := r.raw
	ks := keys(path)
	for i, k := range ks {
		var n int
		err := jsonparser.ObjectEach(obj, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
			if string(key) == k {
				n++
			}
			return nil
		})
		switch {
		case n > 1:
			return fmt.Errorf("%w: %q", ErrDuplicateField, strings.Join(ks[:i+1], "."))
		case err != nil || n == 0:
			// Missing keys and non object values are reported by the lookup.
			return nil
		}

		if i == len(ks)-1 {
			return nil
		}
		if obj, _, _, err = jsonparser.Get(obj, k); err != nil {
			return nil
		}
	}
	return nil
}

func keys(path string) []string {
	return strings.Split(path, ".")
}

func expr(path string) jp.Expr {
	x := jp.R()
	for _, k := range keys(path) {
		x = x.C(k)
	}
	return x
}

// encodeString returns s as a JSON string literal, without escaping HTML characters.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("could not encode value: %v", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	default:
		return "a number"
	}
}
