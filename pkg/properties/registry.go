package properties

import "slices"

// PropertyTypes is the registry owning a document's property type
// definitions. It hands out ids from a counter that only ever advances, so
// an id is never assigned twice within one registry, and a cleared or
// reloaded registry never reuses an id it handed out earlier. Lookups scan
// linearly; the number of user-defined types is small, typically tens.
type PropertyTypes struct {
	types  []PropertyType
	nextID int
}

// NewPropertyTypes returns an empty registry with its id counter at zero.
// Independent registries assign ids independently.
func NewPropertyTypes() *PropertyTypes {
	return &PropertyTypes{}
}

// Len returns the number of types in the registry.
func (p *PropertyTypes) Len() int {
	return len(p.types)
}

// Count returns the number of types of the given kind.
func (p *PropertyTypes) Count(kind Kind) int {
	count := 0
	for _, t := range p.types {
		if t.Kind() == kind {
			count++
		}
	}
	return count
}

// All returns the types in insertion order. The slice is a copy, the types
// are shared with the registry.
func (p *PropertyTypes) All() []PropertyType {
	return slices.Clone(p.types)
}

// FindTypeByID returns the type with the given id, or nil.
func (p *PropertyTypes) FindTypeByID(id int) PropertyType {
	for _, t := range p.types {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// FindTypeByName returns the first type with the given name, or nil. Names
// are not guaranteed unique; a later duplicate is shadowed.
func (p *PropertyTypes) FindTypeByName(name string) PropertyType {
	for _, t := range p.types {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// Add appends a type to the registry. A type without an id yet is assigned
// the next unused one; a type that already carries an id advances the
// counter past it instead, so later assignments never collide with it.
func (p *PropertyTypes) Add(t PropertyType) {
	if t.ID() == 0 {
		p.nextID++
		t.setID(p.nextID)
	} else if t.ID() > p.nextID {
		p.nextID = t.ID()
	}
	p.types = append(p.types, t)
}

// AddEnum creates an enum type with a fresh id and adds it.
func (p *PropertyTypes) AddEnum(name string) *EnumPropertyType {
	t := NewEnumPropertyType(name)
	p.Add(t)
	return t
}

// AddClass creates a class type with a fresh id and adds it.
func (p *PropertyTypes) AddClass(name string) *ClassPropertyType {
	t := NewClassPropertyType(name)
	p.Add(t)
	return t
}

// RemoveByID removes the type with the given id and reports whether it was
// present. The id is not reused afterwards.
func (p *PropertyTypes) RemoveByID(id int) bool {
	for i, t := range p.types {
		if t.ID() == id {
			p.types = slices.Delete(p.types, i, i+1)
			return true
		}
	}
	return false
}

// Clear removes every type. The id counter keeps its value.
func (p *PropertyTypes) Clear() {
	p.types = nil
}

// Load replaces the registry contents with a type for every well-formed
// record, in input order. Records of unknown kind are skipped, not an
// error. References between class members are not resolved yet; call
// ResolveReferences afterwards, or use LoadFrom.
func (p *PropertyTypes) Load(records []any) {
	p.Clear()

	for _, record := range records {
		if t := CreateFromVariant(variantMap(record)); t != nil {
			p.Add(t)
		}
	}
}

// ResolveReferences runs the second load phase: every type resolves its
// references to other types, in insertion order. Every type of the document
// is present and findable by now, so a member may refer to a type declared
// later in the document. Call it once after Load; path is the directory
// file references are resolved against.
func (p *PropertyTypes) ResolveReferences(path string) {
	ctx := NewExportContext(p, path)
	for _, t := range p.types {
		t.ResolveDependencies(ctx)
	}
}

// LoadFrom loads definition records and resolves the references between
// them, replacing the registry's previous contents.
func (p *PropertyTypes) LoadFrom(records []any, path string) {
	p.Load(records)
	p.ResolveReferences(path)
}

// ToVariant serializes every definition in insertion order, the inverse of
// LoadFrom. Path is the directory file references are made relative to.
func (p *PropertyTypes) ToVariant(path string) []any {
	ctx := NewExportContext(p, path)
	records := make([]any, 0, len(p.types))
	for _, t := range p.types {
		records = append(records, t.ToVariant(ctx))
	}
	return records
}
