package spira

import "fmt"

// decodeArray decodes a body holding a JSON array of objects, preserving
// order. The first bad element aborts the whole collection.
func decodeArray[T any](body []byte, s scope, decode func(Object, scope) (T, error)) ([]T, error) {
	v, err := parseJSON(body)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &MalformedPayloadError{
			Reason:  fmt.Sprintf("expected array, got %s", jsonKind(v)),
			Snippet: truncate(body),
		}
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &ElementError{
				Index: i,
				Err:   &MalformedPayloadError{Reason: fmt.Sprintf("expected object, got %s", jsonKind(item))},
			}
		}
		e, err := decode(Object(m), s)
		if err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
		out = append(out, e)
	}
	return out, nil
}

// decodeOne decodes a body holding a single JSON object.
func decodeOne[T any](body []byte, s scope, decode func(Object, scope) (T, error)) (T, error) {
	o, err := parseObject(body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode(o, s)
}
