// Package jsonish decodes the JSON-like nested columns of the raw movie
// datasets. The columns usually hold Python-repr text (single quotes), with
// well-formed JSON mixed in, so decoding is an ordered fallback: strict JSON
// first, then a permissive pass with single quotes rewritten, then empty.
package jsonish

import (
	"encoding/json"
	"strings"
)

// Kind classifies a parse result.
type Kind int

const (
	// KindEmpty: nothing decodable; callers treat the field as absent.
	KindEmpty Kind = iota
	// KindList: the field decoded as a list.
	KindList
	// KindObject: the field decoded as a single object.
	KindObject
)

// Result is the typed outcome of Parse. Exactly one of List/Object is set,
// matching Kind.
type Result struct {
	Kind   Kind
	List   []any
	Object map[string]any
}

// Parse decodes a raw nested-structure field.
//
// Fallback order:
//  1. strict JSON
//  2. the same text with single quotes rewritten to double quotes
//  3. KindEmpty
//
// Scalar decodes (strings, numbers, booleans) are a type mismatch and also
// yield KindEmpty; a malformed field never fails the row.
func Parse(s string) Result {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "nan") {
		return Result{}
	}

	if r, ok := decode(s); ok {
		return r
	}
	if r, ok := decode(strings.ReplaceAll(s, "'", `"`)); ok {
		return r
	}
	return Result{}
}

// ParseList is Parse restricted to lists: objects and scalars yield an empty
// list, mirroring the list-typed columns' policy.
func ParseList(s string) []any {
	r := Parse(s)
	if r.Kind != KindList {
		return nil
	}
	return r.List
}

// ParseObject is Parse restricted to a single object; anything else is absent.
func ParseObject(s string) map[string]any {
	r := Parse(s)
	if r.Kind != KindObject {
		return nil
	}
	return r.Object
}

func decode(s string) (Result, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return Result{}, false
	}
	switch t := v.(type) {
	case []any:
		return Result{Kind: KindList, List: t}, true
	case map[string]any:
		return Result{Kind: KindObject, Object: t}, true
	default:
		// Scalar or null: type mismatch for a nested column.
		return Result{}, false
	}
}

// EncodeCanonical re-serializes a parse result to canonical JSON text for the
// normalized output stream. Empty results encode as the empty string because
// the output format is flat text.
func (r Result) EncodeCanonical() string {
	switch r.Kind {
	case KindList:
		return encode(r.List)
	case KindObject:
		return encode(r.Object)
	default:
		return ""
	}
}

// EncodeList canonically serializes a list value. A nil or empty list encodes
// as "[]": list-typed columns are always present in the output, only object
// columns may be absent.
func EncodeList(list []any) string {
	if len(list) == 0 {
		return "[]"
	}
	return encode(list)
}

// EncodeObject canonically serializes an object value, "" when nil.
func EncodeObject(obj map[string]any) string {
	if obj == nil {
		return ""
	}
	return encode(obj)
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Only unmarshalable values (channels, funcs) hit this; decoded JSON
		// values always re-marshal.
		return ""
	}
	return string(b)
}
