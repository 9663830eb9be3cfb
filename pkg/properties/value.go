package properties

import (
	"slices"
	"sort"
)

// Interchange values are held as any and restricted to: nil, bool, int,
// float64, string, []any, Properties (or map[string]any), the domain value
// kinds Color, FilePath and ObjectRef, and the tagged wrapper PropertyValue.

// PropertyValue pairs a raw value with the id of the custom property type
// that interprets it. It is the runtime representation of "this value is
// typed by the type with this id"; consumers that need to special-case
// custom-typed values type-switch on it rather than probing the registry.
type PropertyValue struct {
	Value  any
	TypeID int
}

// Color holds a color in #RRGGBB or #AARRGGBB notation.
type Color string

// FilePath references a file on disk. It is exported relative to the
// document that owns it and resolved back on import.
type FilePath string

// ObjectRef references a map object by its id.
type ObjectRef int

// Properties is a string-keyed bag of property values.
type Properties map[string]any

// SortedKeys returns the property names in sorted order. All serialization
// iterates properties in this order so output is deterministic.
func (p Properties) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the property bag.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge copies every entry of source into target. When both sides hold a
// value wrapped with the same class type, the class members are merged
// recursively instead of replaced wholesale.
func Merge(target Properties, source Properties) {
	for key, value := range source {
		if pv, ok := value.(PropertyValue); ok {
			if targetPV, ok := target[key].(PropertyValue); ok && targetPV.TypeID == pv.TypeID {
				if members := asProperties(pv.Value); members != nil {
					targetMembers := asProperties(targetPV.Value).Clone()
					if targetMembers == nil {
						targetMembers = Properties{}
					}
					Merge(targetMembers, members)
					target[key] = PropertyValue{Value: targetMembers, TypeID: pv.TypeID}
					continue
				}
			}
		}
		target[key] = value
	}
}

// asProperties converts a generic value into a Properties map, or nil when
// the value is not map-shaped.
func asProperties(value any) Properties {
	switch v := value.(type) {
	case Properties:
		return v
	case map[string]any:
		return Properties(v)
	}
	return nil
}

// Permissive accessors for parsed interchange records, mirroring the loose
// conversion rules of the interchange formats (JSON numbers arrive as
// float64, CBOR integers as int64 or uint64).

func variantString(v any) string {
	s, _ := v.(string)
	return s
}

func variantBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func variantInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func variantList(v any) []any {
	l, _ := v.([]any)
	return l
}

func variantMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Properties:
		return m
	}
	return nil
}

func variantStringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return slices.Clone(l)
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, variantString(item))
		}
		return out
	}
	return nil
}
