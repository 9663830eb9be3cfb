// Package object is the host side of the property system: objects carry a
// property bag, an optional class linking them to an ObjectType with
// default properties, and named components holding grouped properties.
package object

import (
	"sort"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

// Object is anything in the host application that carries properties.
// Class, when set, names the ObjectType whose default properties back the
// object's own ones during resolution.
type Object struct {
	Class string

	props      properties.Properties
	components map[string]properties.Properties
}

// NewObject returns an object of the given class with no properties.
func NewObject(class string) *Object {
	return &Object{Class: class}
}

// Properties returns the object's own property bag. The map is live; it
// does not include inherited values, see ResolvedProperties for those.
func (o *Object) Properties() properties.Properties {
	return o.props
}

// SetProperties replaces the object's own property bag.
func (o *Object) SetProperties(props properties.Properties) {
	o.props = props
}

// Property returns the object's own value for name, nil when absent.
func (o *Object) Property(name string) any {
	return o.props[name]
}

// HasProperty reports whether the object itself carries the property.
func (o *Object) HasProperty(name string) bool {
	_, ok := o.props[name]
	return ok
}

// SetProperty sets one of the object's own properties.
func (o *Object) SetProperty(name string, value any) {
	if o.props == nil {
		o.props = properties.Properties{}
	}
	o.props[name] = value
}

// RemoveProperty removes one of the object's own properties.
func (o *Object) RemoveProperty(name string) {
	delete(o.props, name)
}

// ResolvedProperty returns the value of the property name, falling back to
// the default properties of the object's class. Every type with a matching
// name is consulted in list order.
func (o *Object) ResolvedProperty(name string, types ObjectTypes) any {
	if o.HasProperty(name) {
		return o.props[name]
	}

	if o.Class != "" {
		for _, t := range types {
			if t.Name != o.Class {
				continue
			}
			if value, ok := t.DefaultProperties[name]; ok {
				return value
			}
		}
	}

	return nil
}

// ResolvedProperties returns the object's properties with class defaults
// filled in. Defaults are merged first and the object's own properties
// last, so precedence matches ResolvedProperty.
func (o *Object) ResolvedProperties(types ObjectTypes) properties.Properties {
	all := properties.Properties{}

	if o.Class != "" {
		for _, t := range types {
			if t.Name == o.Class {
				properties.Merge(all, t.DefaultProperties)
			}
		}
	}

	properties.Merge(all, o.props)
	return all
}

// Components returns the object's components keyed by name. The map is
// live.
func (o *Object) Components() map[string]properties.Properties {
	return o.components
}

// Component returns the named component's property bag, nil when absent.
func (o *Object) Component(name string) properties.Properties {
	return o.components[name]
}

// AddComponent attaches a component, replacing one with the same name.
func (o *Object) AddComponent(name string, props properties.Properties) {
	if o.components == nil {
		o.components = map[string]properties.Properties{}
	}
	o.components[name] = props
}

// RemoveComponent detaches the named component.
func (o *Object) RemoveComponent(name string) {
	delete(o.components, name)
}

// SetComponentProperty sets a property of the named component. It does
// nothing when the component is absent.
func (o *Object) SetComponentProperty(component, name string, value any) {
	if props, ok := o.components[component]; ok {
		props[name] = value
	}
}

// MergeComponents merges the given components into the object's, merging
// property bags of components both sides have.
func (o *Object) MergeComponents(components map[string]properties.Properties) {
	for name, props := range components {
		if o.components == nil {
			o.components = map[string]properties.Properties{}
		}
		if existing, ok := o.components[name]; ok {
			properties.Merge(existing, props)
		} else {
			o.components[name] = props.Clone()
		}
	}
}

// CommonComponents returns the names of components every given object has,
// or with inverted set, the names no given object has. Names seen on the
// objects and names of the known object types are both considered; the
// result is sorted. An empty object list yields nil.
func CommonComponents(objects []*Object, types ObjectTypes, inverted bool) []string {
	if len(objects) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, t := range types {
		counts[t.Name] = 0
	}
	for _, o := range objects {
		for name := range o.components {
			counts[name]++
		}
	}

	target := len(objects)
	if inverted {
		target = 0
	}

	var names []string
	for name, count := range counts {
		if count == target {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
