package spira

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"strconv"
	"time"
)

const snippetLimit = 160

// Object is one untyped JSON object as returned by the service.
type Object map[string]any

// Field returns the raw value stored under name. A JSON null is returned as
// a nil value without error; only absence is a MissingFieldError.
func (o Object) Field(name string) (any, error) {
	v, ok := o[name]
	if !ok {
		return nil, &MissingFieldError{Field: name, Snippet: o.snippet()}
	}
	return v, nil
}

// optional returns the value under name, or ok=false when absent or null.
func (o Object) optional(name string) (any, bool) {
	v, ok := o[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// required is Field with null treated the same as absence.
func (o Object) required(name string) (any, error) {
	v, err := o.Field(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &MissingFieldError{Field: name, Snippet: o.snippet()}
	}
	return v, nil
}

func (o Object) snippet() string {
	raw, err := json.Marshal(map[string]any(o))
	if err != nil {
		return "<unprintable object>"
	}
	return truncate(raw)
}

func (o Object) requiredInt(name string) (int64, error) {
	v, err := o.required(name)
	if err != nil {
		return 0, err
	}
	return asID(name, v)
}

func (o Object) optionalInt(name string) (*int64, error) {
	v, ok := o.optional(name)
	if !ok {
		return nil, nil
	}
	n, err := asID(name, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (o Object) requiredString(name string) (string, error) {
	v, err := o.required(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected string, got %s", jsonKind(v))}
	}
	return s, nil
}

func (o Object) optionalString(name string) (*string, error) {
	v, ok := o.optional(name)
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected string, got %s", jsonKind(v))}
	}
	return &s, nil
}

func (o Object) requiredBool(name string) (bool, error) {
	v, err := o.required(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected boolean, got %s", jsonKind(v))}
	}
	return b, nil
}

func (o Object) requiredDate(name string) (time.Time, error) {
	v, err := o.required(name)
	if err != nil {
		return time.Time{}, err
	}
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case json.Number:
		raw = t.String()
	default:
		return time.Time{}, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected date string, got %s", jsonKind(v))}
	}
	ts, err := DecodeDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q: %w", name, err)
	}
	return ts, nil
}

// optionalMap copies a JSON object value verbatim. Any other shape, absence
// or null yields nil.
func (o Object) optionalMap(name string) map[string]any {
	v, ok := o.optional(name)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return maps.Clone(m)
}

// asID converts a decoded JSON number into a non-negative int64.
func asID(name string, v any) (int64, error) {
	i, err := asInt(name, v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("negative value %d", i)}
	}
	return i, nil
}

func asInt(name string, v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected integer, got %s", n)}
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n > math.MaxInt64 {
			return 0, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected integer, got %v", n)}
		}
		return int64(n), nil
	default:
		return 0, &InvalidFieldError{Field: name, Reason: fmt.Sprintf("expected integer, got %s", jsonKind(v))}
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// parseJSON decodes a whole body into generic values, keeping numbers exact.
func parseJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &MalformedPayloadError{Reason: "invalid JSON", Snippet: truncate(body), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &MalformedPayloadError{Reason: "trailing data after JSON value", Snippet: truncate(body)}
	}
	return v, nil
}

// parseObject decodes a body that must hold exactly one JSON object.
func parseObject(body []byte) (Object, error) {
	v, err := parseJSON(body)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedPayloadError{Reason: fmt.Sprintf("expected object, got %s", jsonKind(v)), Snippet: truncate(body)}
	}
	return Object(m), nil
}

func truncate(raw []byte) string {
	if len(raw) <= snippetLimit {
		return string(raw)
	}
	return string(raw[:snippetLimit]) + "..."
}
