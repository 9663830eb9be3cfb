package object

import (
	"testing"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

func TestObjectTypeVariantRoundTrip(t *testing.T) {
	types := properties.NewPropertyTypes()
	element := types.AddEnum("Element")
	element.Values = []string{"Water", "Fire"}
	ctx := properties.NewExportContext(types, "")

	ot := ObjectType{
		Name:  "Enemy",
		Color: "#ff0000",
		DefaultProperties: properties.Properties{
			"hp":      10,
			"element": element.Wrap(1),
		},
	}

	record := ot.ToVariant(ctx)
	if record["name"] != "Enemy" || record["color"] != "#ff0000" {
		t.Errorf("record identity = (%v, %v)", record["name"], record["color"])
	}

	props, ok := record["properties"].([]any)
	if !ok || len(props) != 2 {
		t.Fatalf("properties = %v, want 2 records", record["properties"])
	}

	// Records are in name order: element before hp.
	first := props[0].(map[string]any)
	if first["name"] != "element" || first["value"] != "Fire" || first["propertyType"] != "Element" {
		t.Errorf("properties[0] = %v", first)
	}

	back := ObjectTypeFromVariant(record, ctx)
	if back.Name != ot.Name || back.Color != ot.Color {
		t.Errorf("reloaded identity = (%q, %q)", back.Name, back.Color)
	}
	if back.DefaultProperties["hp"] != 10 {
		t.Errorf("reloaded hp = %v", back.DefaultProperties["hp"])
	}

	pv, ok := back.DefaultProperties["element"].(properties.PropertyValue)
	if !ok {
		t.Fatalf("reloaded element = %T, want PropertyValue", back.DefaultProperties["element"])
	}
	if pv.TypeID != element.ID() || pv.Value != 1 {
		t.Errorf("reloaded element = %+v, want {1 %d}", pv, element.ID())
	}
}

func TestObjectTypeFromVariantSkipsMalformedProperties(t *testing.T) {
	ctx := properties.NewExportContext(nil, "")

	record := map[string]any{
		"name":  "Crate",
		"color": "#884400",
		"properties": []any{
			map[string]any{"name": "weight", "type": "int", "value": float64(3)},
			map[string]any{"type": "int", "value": float64(9)}, // nameless
			"junk",
		},
	}

	got := ObjectTypeFromVariant(record, ctx)
	if len(got.DefaultProperties) != 1 {
		t.Fatalf("DefaultProperties = %v, want only weight", got.DefaultProperties)
	}
	if got.DefaultProperties["weight"] != 3 {
		t.Errorf("weight = %v (%T), want int 3", got.DefaultProperties["weight"], got.DefaultProperties["weight"])
	}
}

func TestDefaultPropertiesFor(t *testing.T) {
	types := ObjectTypes{
		{Name: "A", DefaultProperties: properties.Properties{"x": 1}},
		{Name: "A", DefaultProperties: properties.Properties{"y": 2}},
	}

	got := types.DefaultPropertiesFor("A")
	if got["x"] != 1 {
		t.Errorf("DefaultPropertiesFor(A) = %v, want the first match", got)
	}
	if types.DefaultPropertiesFor("B") != nil {
		t.Error("DefaultPropertiesFor(B) should be nil")
	}
}
