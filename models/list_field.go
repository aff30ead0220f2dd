package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

type listKind uint8

const (
	listAbsent listKind = iota
	listStructured
	listDelimited
)

// ListField is a list-valued product attribute as it arrived at the API
// boundary: absent, already structured (repeated form keys or a JSON array),
// or a single string that still has to be interpreted.
// The zero value is absent.
type ListField struct {
	kind   listKind
	values []string
	raw    string
}

// StructuredList wraps values that arrived as a real list.
func StructuredList(values []string) ListField {
	return ListField{kind: listStructured, values: values}
}

// DelimitedList wraps a single string such as "red, blue" or `["red","blue"]`.
func DelimitedList(raw string) ListField {
	return ListField{kind: listDelimited, raw: raw}
}

// Present reports whether the field was sent at all.
func (f ListField) Present() bool {
	return f.kind != listAbsent
}

// Resolve interprets the field as a list of labels (colors, sizes).
//
// Structured values are returned unchanged. A string that decodes as a JSON
// array of strings or numbers yields those elements, numbers in their literal
// form. Any other string is split on commas; segments are trimmed and empty
// ones dropped. Absent yields an empty list. Resolve never fails.
func (f ListField) Resolve() []string {
	switch f.kind {
	case listStructured:
		return f.values
	case listDelimited:
		if values, ok := decodeJSONList(f.raw); ok {
			return values
		}
		return splitComma(f.raw)
	default:
		return []string{}
	}
}

// ResolveRefs interprets the field as image references. It differs from
// Resolve only in the fallback: a string that is not a JSON list is kept
// whole as one reference, since URLs may contain commas.
func (f ListField) ResolveRefs() []string {
	if f.kind != listDelimited {
		return f.Resolve()
	}
	if values, ok := decodeJSONList(f.raw); ok {
		return values
	}
	if ref := strings.TrimSpace(f.raw); ref != "" {
		return []string{ref}
	}
	return []string{}
}

// UnmarshalJSON maps an array of strings or numbers to a structured list and
// null to absent. Any other JSON value is kept as delimited text (a string's
// content, otherwise the raw JSON) and resolved by the fallback rules.
func (f *ListField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*f = ListField{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = DelimitedList(s)
		return nil
	}

	if values, ok := decodeJSONList(string(data)); ok {
		*f = StructuredList(values)
		return nil
	}

	*f = DelimitedList(string(data))
	return nil
}

// MarshalJSON writes the resolved list, or null when absent.
func (f ListField) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Resolve())
}

// decodeJSONList succeeds only for a JSON array whose elements are all
// strings or numbers.
func decodeJSONList(raw string) ([]string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil || dec.More() {
		return nil, false
	}

	values := make([]string, 0, len(elems))
	for _, elem := range elems {
		switch v := elem.(type) {
		case string:
			values = append(values, v)
		case json.Number:
			values = append(values, v.String())
		default:
			return nil, false
		}
	}
	return values, true
}

func splitComma(raw string) []string {
	values := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
