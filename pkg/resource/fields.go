package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// FieldSpec maps one key of a docker JSON object onto a Go destination.
// Into must be a pointer. Nested records decode themselves by implementing
// json.Unmarshaler with DecodeObject.
type FieldSpec struct {
	Key      string
	Into     any
	Required bool
}

// Fields is the field-mapping table of one record type. Keys not listed
// are ignored, since docker adds keys between releases.
type Fields []FieldSpec

// DecodeObject decodes a JSON object through fields, collecting every
// problem into one *ValidationError.
func DecodeObject(record string, data []byte, fields Fields) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Record: record, Problems: []FieldError{{Problem: describe(err, "object")}}}
	}
	if raw == nil {
		return &ValidationError{Record: record, Problems: []FieldError{{Problem: "expected object, got null"}}}
	}

	var problems []FieldError
	for _, f := range fields {
		value, ok := raw[f.Key]
		if !ok || isNull(value) {
			if f.Required {
				problems = append(problems, FieldError{Path: f.Key, Problem: "missing required field"})
			}
			continue
		}

		problems = append(problems, decodeValue(f.Key, value, f.Into)...)
	}

	if len(problems) > 0 {
		return &ValidationError{Record: record, Problems: problems}
	}
	return nil
}

// DecodeInspect decodes the output of `docker <kind> inspect`, which is
// either a single object or an array holding exactly one object.
func DecodeInspect(record string, data []byte, fields Fields) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &ValidationError{Record: record, Problems: []FieldError{{Problem: "empty inspect output"}}}
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return &ValidationError{Record: record, Problems: []FieldError{{Problem: describe(err, "array")}}}
		}
		if len(items) != 1 {
			return &ValidationError{Record: record, Problems: []FieldError{{
				Problem: fmt.Sprintf("expected exactly one object, got %d", len(items)),
			}}}
		}
		trimmed = items[0]
	}

	return DecodeObject(record, trimmed, fields)
}

// decodeValue unmarshals value into dst. Maps with string keys and
// slices are decoded one element at a time so a problem inside an element
// is reported under path.key or path.index.
func decodeValue(path string, value json.RawMessage, dst any) []FieldError {
	rv := reflect.ValueOf(dst)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		elem := rv.Elem()
		switch {
		case elem.Kind() == reflect.Map && elem.Type().Key().Kind() == reflect.String:
			return decodeMap(path, value, elem)
		case elem.Kind() == reflect.Slice && elem.Type().Elem().Kind() != reflect.Uint8:
			return decodeSlice(path, value, elem)
		}
	}

	if err := json.Unmarshal(value, dst); err != nil {
		return nested(path, err)
	}
	return nil
}

func decodeMap(path string, value json.RawMessage, dst reflect.Value) []FieldError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(value, &raw); err != nil {
		return []FieldError{{Path: path, Problem: describe(err, "object")}}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	typ := dst.Type()
	out := reflect.MakeMapWithSize(typ, len(raw))
	var problems []FieldError
	for _, k := range keys {
		item := reflect.New(typ.Elem())
		if p := decodeValue(path+"."+k, raw[k], item.Interface()); len(p) > 0 {
			problems = append(problems, p...)
			continue
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(typ.Key()), item.Elem())
	}

	if len(problems) > 0 {
		return problems
	}
	dst.Set(out)
	return nil
}

func decodeSlice(path string, value json.RawMessage, dst reflect.Value) []FieldError {
	var raw []json.RawMessage
	if err := json.Unmarshal(value, &raw); err != nil {
		return []FieldError{{Path: path, Problem: describe(err, "array")}}
	}

	typ := dst.Type()
	out := reflect.MakeSlice(typ, len(raw), len(raw))
	var problems []FieldError
	for i, item := range raw {
		problems = append(problems, decodeValue(path+"."+strconv.Itoa(i), item, out.Index(i).Addr().Interface())...)
	}

	if len(problems) > 0 {
		return problems
	}
	dst.Set(out)
	return nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// nested turns an error from decoding key into field problems, keeping
// the paths reported by nested records.
func nested(key string, err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		out := make([]FieldError, len(ve.Problems))
		for i, p := range ve.Problems {
			path := key
			if p.Path != "" {
				path += "." + p.Path
			}
			out[i] = FieldError{Path: path, Problem: p.Problem}
		}
		return out
	}

	path := key
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		path += "." + typeErr.Field
	}
	return []FieldError{{Path: path, Problem: describe(err, "")}}
}

func describe(err error, want string) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if want == "" {
			want = typeErr.Type.String()
		}
		return fmt.Sprintf("expected %s, got %s", want, typeErr.Value)
	}
	return "invalid JSON: " + err.Error()
}
