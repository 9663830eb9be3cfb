package properties

import (
	"slices"
	"strings"
)

// StorageType selects how values of an enum type are persisted: as the
// integer index of the selected member or as its name.
type StorageType int

const (
	StorageString StorageType = iota
	StorageInt
)

// StorageTypeFromString maps an interchange tag to a StorageType. Anything
// other than "int" selects string storage.
func StorageTypeFromString(s string) StorageType {
	if s == "int" {
		return StorageInt
	}
	return StorageString
}

// String returns the tag written to interchange documents.
func (s StorageType) String() string {
	if s == StorageInt {
		return "int"
	}
	return "string"
}

var _ PropertyType = (*EnumPropertyType)(nil)

// EnumPropertyType is a user-defined enumeration. The order of Values is
// significant: a stored value is an index into it, or a bitmask over its
// indices when ValuesAsFlags is set, with bit i standing for Values[i].
type EnumPropertyType struct {
	propertyType
	Values        []string
	StorageType   StorageType
	ValuesAsFlags bool
}

// NewEnumPropertyType returns an enum with string storage and no flag
// semantics. The id is zero until a registry assigns one.
func NewEnumPropertyType(name string) *EnumPropertyType {
	return &EnumPropertyType{propertyType: propertyType{name: name, kind: KindEnum}}
}

// ToExportValue translates integer values to their names when the enum uses
// string storage: the indexed name for plain enums, a comma-joined list of
// the names whose bits are set for flag enums. Values that are not integers,
// or indices out of range, are exported untranslated.
func (t *EnumPropertyType) ToExportValue(value any, ctx ExportContext) ExportValue {
	if intValue, ok := value.(int); ok && t.StorageType == StorageString {
		if t.ValuesAsFlags {
			var joined strings.Builder
			for i, name := range t.Values {
				if intValue&(1<<i) != 0 {
					if joined.Len() > 0 {
						joined.WriteByte(',')
					}
					joined.WriteString(name)
				}
			}
			return t.baseExportValue(joined.String(), ctx)
		}

		if intValue >= 0 && intValue < len(t.Values) {
			return t.baseExportValue(t.Values[intValue], ctx)
		}
	}

	return t.baseExportValue(value, ctx)
}

// ToPropertyValue translates string values back to their integer form. For
// flag enums the string is split on commas and every segment looked up; if
// any segment is unrecognized the original string is wrapped unchanged, so
// no flag data is silently dropped. For plain enums an unknown name likewise
// stays a string. Non-string values are wrapped as-is.
func (t *EnumPropertyType) ToPropertyValue(value any, _ ExportContext) any {
	if stringValue, ok := value.(string); ok {
		if t.ValuesAsFlags {
			flags := 0
			for _, segment := range strings.Split(stringValue, ",") {
				if segment == "" {
					continue
				}
				index := slices.Index(t.Values, segment)
				if index == -1 {
					return t.Wrap(value)
				}
				flags |= 1 << index
			}
			return t.Wrap(flags)
		}

		if index := slices.Index(t.Values, stringValue); index != -1 {
			return t.Wrap(index)
		}
	}

	return t.Wrap(value)
}

// DefaultValue returns integer 0: the first member, or no flags set.
func (t *EnumPropertyType) DefaultValue() any {
	return 0
}

// ToVariant serializes the enum definition.
func (t *EnumPropertyType) ToVariant(_ ExportContext) map[string]any {
	variant := t.baseVariant()
	variant["storageType"] = t.StorageType.String()
	variant["values"] = slices.Clone(t.Values)
	variant["valuesAsFlags"] = t.ValuesAsFlags
	return variant
}

func (t *EnumPropertyType) fromVariant(record map[string]any) {
	t.StorageType = StorageTypeFromString(variantString(record["storageType"]))
	t.Values = variantStringList(record["values"])
	t.ValuesAsFlags = variantBool(record["valuesAsFlags"])
}

// ResolveDependencies is a no-op: enums do not refer to other types.
func (t *EnumPropertyType) ResolveDependencies(ExportContext) {}
