package wire

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// Style is the key naming convention of a request, echoed in its response.
type Style int

const (
	SnakeCase Style = iota
	CamelCase
)

func toSnake(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toCamel(key string) string {
	parts := strings.Split(key, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// rekey rewrites every object key in v with fn and reports whether any key
// changed.
func rekey(v any, fn func(string) string) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		changed := false
		for k, val := range t {
			nk := fn(k)
			nv, c := rekey(val, fn)
			changed = changed || c || nk != k
			out[nk] = nv
		}
		return out, changed
	case []any:
		out := make([]any, len(t))
		changed := false
		for i, val := range t {
			nv, c := rekey(val, fn)
			changed = changed || c
			out[i] = nv
		}
		return out, changed
	default:
		return v, false
	}
}

// normalize converts the keys of a JSON document to snake_case and reports
// the style the document was written in.
func normalize(body []byte) ([]byte, Style, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, SnakeCase, err
	}

	snake, changed := rekey(doc, toSnake)
	out, err := json.Marshal(snake)
	if err != nil {
		return nil, SnakeCase, err
	}
	if changed {
		return out, CamelCase, nil
	}
	return out, SnakeCase, nil
}

// Encode marshals v, whose JSON tags are snake_case, in the given style.
func Encode(v any, style Style) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if style == SnakeCase {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	camel, _ := rekey(doc, toCamel)
	return json.Marshal(camel)
}
