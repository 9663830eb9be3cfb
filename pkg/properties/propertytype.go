package properties

// Kind discriminates the behavior variants of user-defined property types.
type Kind int

const (
	KindInvalid Kind = iota
	KindEnum
	KindClass
)

// KindFromString maps an interchange type tag to a Kind. The empty string
// maps to KindEnum for compatibility with documents written before class
// types existed, which omitted the tag.
func KindFromString(s string) Kind {
	switch s {
	case "enum", "":
		return KindEnum
	case "class":
		return KindClass
	}
	return KindInvalid
}

// String returns the tag written to interchange documents. It never returns
// the empty string.
func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindClass:
		return "class"
	}
	return "invalid"
}

// PropertyType is the contract shared by user-defined property types. The
// implementations are EnumPropertyType and ClassPropertyType; the unexported
// methods keep the set closed, so a type switch over the two concrete types
// is exhaustive.
type PropertyType interface {
	// ID returns the identifier assigned when the type was created or
	// loaded. It is stable for the lifetime of the type object.
	ID() int
	// Name returns the display name, also used for lookups and export.
	Name() string
	// Kind reports which behavior variant applies.
	Kind() Kind

	// Wrap tags a raw value with this type's id.
	Wrap(value any) PropertyValue

	// ToExportValue converts a value stored under this type into the
	// interchange representation, stamped with this type's name.
	ToExportValue(value any, ctx ExportContext) ExportValue
	// ToPropertyValue converts an interchange value back into the stored
	// representation, wrapped with this type's id.
	ToPropertyValue(value any, ctx ExportContext) any
	// DefaultValue returns the value a fresh property of this type
	// starts out with.
	DefaultValue() any
	// ToVariant serializes the type definition itself, not a value of it.
	ToVariant(ctx ExportContext) map[string]any
	// ResolveDependencies resolves references to other types. It runs as
	// a second pass once every definition of a document has been loaded,
	// so members may refer to types declared later in the document.
	ResolveDependencies(ctx ExportContext)

	fromVariant(record map[string]any)
	setID(id int)
}

// propertyType carries the identity common to both kinds and implements the
// shared parts of the contract.
type propertyType struct {
	id   int
	name string
	kind Kind
}

func (t *propertyType) ID() int      { return t.id }
func (t *propertyType) Name() string { return t.name }
func (t *propertyType) Kind() Kind   { return t.kind }
func (t *propertyType) setID(id int) { t.id = id }

// Wrap tags a raw value with this type's id. The value's shape is not
// validated here.
func (t *propertyType) Wrap(value any) PropertyValue {
	return PropertyValue{Value: value, TypeID: t.id}
}

// baseExportValue delegates to the generic conversion and stamps the result
// with this type's name.
func (t *propertyType) baseExportValue(value any, ctx ExportContext) ExportValue {
	result := ctx.ToExportValue(value)
	result.PropertyTypeName = t.name
	return result
}

// baseVariant returns the definition fields common to both kinds.
func (t *propertyType) baseVariant() map[string]any {
	return map[string]any{
		"type": t.kind.String(),
		"id":   t.id,
		"name": t.name,
	}
}

// CreateFromVariant constructs a property type from a parsed definition
// record, reading the kind from the record's "type" field and the identity
// from "id" and "name". It returns nil for records of unknown kind, which
// loaders skip. Class member references to other types stay unresolved
// until ResolveDependencies runs.
func CreateFromVariant(record map[string]any) PropertyType {
	if record == nil {
		return nil
	}

	name := variantString(record["name"])

	var t PropertyType
	switch KindFromString(variantString(record["type"])) {
	case KindEnum:
		t = NewEnumPropertyType(name)
	case KindClass:
		t = NewClassPropertyType(name)
	default:
		return nil
	}

	t.setID(variantInt(record["id"]))
	t.fromVariant(record)
	return t
}
