package object

import (
	"reflect"
	"testing"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

func TestPropertyAccessors(t *testing.T) {
	o := NewObject("Enemy")

	if o.HasProperty("hp") {
		t.Error("fresh object claims to have a property")
	}

	o.SetProperty("hp", 25)
	if !o.HasProperty("hp") || o.Property("hp") != 25 {
		t.Errorf("Property(hp) = %v, want 25", o.Property("hp"))
	}

	o.RemoveProperty("hp")
	if o.HasProperty("hp") {
		t.Error("property survived removal")
	}
}

func TestResolvedProperty(t *testing.T) {
	types := ObjectTypes{
		{Name: "Enemy", DefaultProperties: properties.Properties{"hp": 10, "hostile": true}},
		{Name: "Enemy", DefaultProperties: properties.Properties{"speed": 2}},
		{Name: "NPC", DefaultProperties: properties.Properties{"hostile": false}},
	}

	o := NewObject("Enemy")
	o.SetProperty("hp", 50)

	tests := []struct {
		name string
		want any
	}{
		{"hp", 50},        // own property wins
		{"hostile", true}, // class default
		{"speed", 2},      // later type with the same name
		{"missing", nil},
	}
	for _, tt := range tests {
		if got := o.ResolvedProperty(tt.name, types); got != tt.want {
			t.Errorf("ResolvedProperty(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	classless := NewObject("")
	if got := classless.ResolvedProperty("hp", types); got != nil {
		t.Errorf("ResolvedProperty without a class = %v, want nil", got)
	}
}

func TestResolvedProperties(t *testing.T) {
	types := ObjectTypes{
		{Name: "Enemy", DefaultProperties: properties.Properties{"hp": 10, "hostile": true}},
	}

	o := NewObject("Enemy")
	o.SetProperty("hp", 50)

	got := o.ResolvedProperties(types)
	want := properties.Properties{"hp": 50, "hostile": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolvedProperties() = %v, want %v", got, want)
	}

	// The resolved bag is a merge result, not the live bag.
	got["hp"] = 1
	if o.Property("hp") != 50 {
		t.Error("ResolvedProperties exposed the object's own bag")
	}
}

func TestComponents(t *testing.T) {
	o := NewObject("")

	o.AddComponent("physics", properties.Properties{"mass": 2.0})
	o.SetComponentProperty("physics", "friction", 0.5)
	o.SetComponentProperty("ghost", "x", 1) // absent component, no-op

	if o.Component("ghost") != nil {
		t.Error("SetComponentProperty created a component")
	}

	physics := o.Component("physics")
	if physics["mass"] != 2.0 || physics["friction"] != 0.5 {
		t.Errorf("physics component = %v", physics)
	}

	o.MergeComponents(map[string]properties.Properties{
		"physics": {"mass": 3.0},
		"render":  {"layer": 1},
	})

	if o.Component("physics")["mass"] != 3.0 {
		t.Errorf("merged mass = %v, want 3.0", o.Component("physics")["mass"])
	}
	if o.Component("physics")["friction"] != 0.5 {
		t.Error("merge dropped an existing component property")
	}
	if o.Component("render")["layer"] != 1 {
		t.Errorf("render component = %v", o.Component("render"))
	}

	o.RemoveComponent("render")
	if o.Component("render") != nil {
		t.Error("component survived removal")
	}
}

func TestCommonComponents(t *testing.T) {
	types := ObjectTypes{{Name: "physics"}, {Name: "render"}}

	a := NewObject("")
	a.AddComponent("physics", properties.Properties{})
	a.AddComponent("sound", properties.Properties{})

	b := NewObject("")
	b.AddComponent("physics", properties.Properties{})

	got := CommonComponents([]*Object{a, b}, types, false)
	if !reflect.DeepEqual(got, []string{"physics"}) {
		t.Errorf("CommonComponents = %v, want [physics]", got)
	}

	inverted := CommonComponents([]*Object{a, b}, types, true)
	if !reflect.DeepEqual(inverted, []string{"render"}) {
		t.Errorf("inverted CommonComponents = %v, want [render]", inverted)
	}

	if CommonComponents(nil, types, false) != nil {
		t.Error("CommonComponents of no objects should be nil")
	}
}
