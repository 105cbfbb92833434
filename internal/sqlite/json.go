// Attribute payload encoding. Attrs are stored as a JSON object in a
// single TEXT column and never interpreted by the backend.
package sqlite

import "encoding/json"

// encodeAttrs serializes an attribute map. A nil map encodes as "{}" so
// the column is always valid JSON.
func encodeAttrs(attrs map[string]any) (string, error) {
	if attrs == nil {
		return "{}", nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeAttrs parses the attrs column. An empty object decodes to nil so
// round-tripping a node without attrs stays stable.
func decodeAttrs(s string) (map[string]any, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(s), &attrs); err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}
