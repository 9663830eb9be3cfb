package object

import (
	"github.com/Pandinosaurus/tiled/pkg/properties"
)

// ObjectType associates a class name with a display color and the default
// properties objects of that class inherit.
type ObjectType struct {
	Name              string
	Color             properties.Color
	DefaultProperties properties.Properties
}

// ObjectTypes is an ordered list of object types.
type ObjectTypes []ObjectType

// DefaultPropertiesFor returns the default property bag of the first type
// with the given name, nil when no type matches.
func (ts ObjectTypes) DefaultPropertiesFor(name string) properties.Properties {
	for _, t := range ts {
		if t.Name == name {
			return t.DefaultProperties
		}
	}
	return nil
}

// ToVariant serializes the object type. Default properties are emitted in
// name order as interchange records, custom-typed values tagged with their
// property type name.
func (t ObjectType) ToVariant(ctx properties.ExportContext) map[string]any {
	props := make([]any, 0, len(t.DefaultProperties))

	for _, name := range t.DefaultProperties.SortedKeys() {
		exportValue := ctx.ToExportValue(t.DefaultProperties[name])

		record := map[string]any{
			"name":  name,
			"type":  exportValue.TypeName,
			"value": exportValue.Value,
		}
		if exportValue.PropertyTypeName != "" {
			record["propertyType"] = exportValue.PropertyTypeName
		}

		props = append(props, record)
	}

	return map[string]any{
		"name":       t.Name,
		"color":      string(t.Color),
		"properties": props,
	}
}

// ObjectTypeFromVariant rebuilds an object type from its interchange
// record, resolving custom-typed default values through the context.
func ObjectTypeFromVariant(record map[string]any, ctx properties.ExportContext) ObjectType {
	t := ObjectType{
		Name:              stringField(record, "name"),
		Color:             properties.Color(stringField(record, "color")),
		DefaultProperties: properties.Properties{},
	}

	list, _ := record["properties"].([]any)
	for _, entry := range list {
		prop, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(prop, "name")
		if name == "" {
			continue
		}
		t.DefaultProperties[name] = ctx.ToPropertyValue(properties.ExportValue{
			Value:            prop["value"],
			TypeName:         stringField(prop, "type"),
			PropertyTypeName: stringField(prop, "propertyType"),
		})
	}

	return t
}

func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}
