package properties

import (
	"path/filepath"
	"strconv"
)

// Export type names stamped on interchange values. The empty string means
// the value's type is unknown and carries no conversion hint.
const (
	typeNameString = "string"
	typeNameBool   = "bool"
	typeNameInt    = "int"
	typeNameFloat  = "float"
	typeNameColor  = "color"
	typeNameFile   = "file"
	typeNameObject = "object"
	typeNameClass  = "class"
)

// ExportValue is the interchange representation of a single property value:
// the converted value, the name of its basic type, and the name of the
// custom property type it was wrapped with (empty when not custom-typed).
type ExportValue struct {
	Value            any
	TypeName         string
	PropertyTypeName string
}

// ExportContext converts property values between their runtime
// representation and the interchange representation. It carries the registry
// used to resolve custom type references and the directory against which
// file references are made relative on export and resolved on import.
type ExportContext struct {
	types *PropertyTypes
	path  string
}

// NewExportContext returns a context backed by the given registry. A nil
// registry behaves as an empty one. The path, when non-empty, is the
// directory file references are relative to.
func NewExportContext(types *PropertyTypes, path string) ExportContext {
	if types == nil {
		types = NewPropertyTypes()
	}
	return ExportContext{types: types, path: path}
}

// Types returns the registry this context resolves custom types against.
func (c ExportContext) Types() *PropertyTypes { return c.types }

// Path returns the directory file references are relative to.
func (c ExportContext) Path() string { return c.path }

// ToExportValue converts a runtime property value into its interchange
// representation. Values wrapped with a custom type are converted by that
// type and stamped with its name; when the type is no longer in the
// registry the inner value is exported as-is.
func (c ExportContext) ToExportValue(value any) ExportValue {
	if pv, ok := value.(PropertyValue); ok {
		if t := c.types.FindTypeByID(pv.TypeID); t != nil {
			return t.ToExportValue(pv.Value, c)
		}
		// The type may have been removed.
		return c.ToExportValue(pv.Value)
	}

	switch v := value.(type) {
	case Color:
		return ExportValue{Value: string(v), TypeName: typeNameColor}
	case FilePath:
		return ExportValue{Value: toFileReference(string(v), c.path), TypeName: typeNameFile}
	case ObjectRef:
		return ExportValue{Value: int(v), TypeName: typeNameObject}
	}

	return ExportValue{Value: value, TypeName: exportTypeName(value)}
}

// ToPropertyValue converts an interchange value back into its runtime
// representation: first by the basic type name, then wrapped through the
// named custom type when one is set and still known to the registry.
func (c ExportContext) ToPropertyValue(exportValue ExportValue) any {
	value := c.ToPropertyValueOfType(exportValue.Value, exportValue.TypeName)

	if exportValue.PropertyTypeName != "" {
		if t := c.types.FindTypeByName(exportValue.PropertyTypeName); t != nil {
			value = t.ToPropertyValue(value, c)
		}
	}

	return value
}

// ToPropertyValueOfType converts an interchange value according to the
// given export type name. Values that already have the target representation
// and values with no sensible conversion are returned unchanged; an unknown
// or empty type name performs no conversion.
func (c ExportContext) ToPropertyValueOfType(value any, typeName string) any {
	if value == nil {
		return nil
	}

	switch typeName {
	case typeNameString:
		switch v := value.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case bool:
			return strconv.FormatBool(v)
		}
	case typeNameBool:
		if b, ok := value.(bool); ok {
			return b
		}
	case typeNameInt:
		switch v := value.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case uint64:
			return int(v)
		case float64:
			return int(v)
		}
	case typeNameFloat:
		switch v := value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case uint64:
			return float64(v)
		}
	case typeNameColor:
		switch v := value.(type) {
		case Color:
			return v
		case string:
			return Color(v)
		}
	case typeNameFile:
		switch v := value.(type) {
		case FilePath:
			return v
		case string:
			return FilePath(fromFileReference(v, c.path))
		}
	case typeNameObject:
		switch v := value.(type) {
		case ObjectRef:
			return v
		case int:
			return ObjectRef(v)
		case int64:
			return ObjectRef(v)
		case uint64:
			return ObjectRef(v)
		case float64:
			return ObjectRef(v)
		}
	case typeNameClass:
		if m := asProperties(value); m != nil {
			return m
		}
	}

	return value
}

// exportTypeName maps a runtime value to the type name used on the wire.
func exportTypeName(value any) string {
	switch value.(type) {
	case string:
		return typeNameString
	case bool:
		return typeNameBool
	case int, int64, uint64:
		return typeNameInt
	case float64:
		return typeNameFloat
	case Color:
		return typeNameColor
	case FilePath:
		return typeNameFile
	case ObjectRef:
		return typeNameObject
	case Properties, map[string]any:
		return typeNameClass
	}
	return ""
}

// toFileReference turns an absolute file path into a slash-separated path
// relative to the context directory. With no context directory the path is
// kept as-is.
func toFileReference(file, contextPath string) string {
	if contextPath == "" || file == "" {
		return file
	}
	if rel, err := filepath.Rel(contextPath, file); err == nil {
		return filepath.ToSlash(rel)
	}
	return file
}

// fromFileReference resolves a file reference read from an interchange
// document against the context directory. Absolute references and
// references read without a context directory are kept as-is.
func fromFileReference(reference, contextPath string) string {
	if contextPath == "" || reference == "" {
		return reference
	}
	resolved := filepath.FromSlash(reference)
	if filepath.IsAbs(resolved) {
		return resolved
	}
	return filepath.Join(contextPath, resolved)
}
