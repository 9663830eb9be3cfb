package properties

var _ PropertyType = (*ClassPropertyType)(nil)

// ClassPropertyType is a user-defined record type: a mapping from member
// name to a typed default value. A member default wrapped in a
// PropertyValue refers to another type in the registry; such references are
// resolved in the second load pass.
type ClassPropertyType struct {
	propertyType
	Members Properties
}

// NewClassPropertyType returns a class with no members. The id is zero
// until a registry assigns one.
func NewClassPropertyType(name string) *ClassPropertyType {
	return &ClassPropertyType{
		propertyType: propertyType{name: name, kind: KindClass},
		Members:      Properties{},
	}
}

// ToExportValue converts every member of the given mapping through the
// generic conversion, keeping the keys, and exports the converted mapping
// stamped with this class's name.
func (t *ClassPropertyType) ToExportValue(value any, ctx ExportContext) ExportValue {
	members := asProperties(value)
	exported := make(map[string]any, len(members))

	for name, memberValue := range members {
		exported[name] = ctx.ToExportValue(memberValue).Value
	}

	return t.baseExportValue(exported, ctx)
}

// ToPropertyValue rebuilds a class value from an interchange mapping. Each
// incoming member is converted using the declared member's type as a hint;
// members declared with another property type are additionally re-wrapped
// through that type, which resolves nested enum and class composition.
// Members no longer declared by the class are dropped.
func (t *ClassPropertyType) ToPropertyValue(value any, ctx ExportContext) any {
	incoming := asProperties(value)
	resolved := make(Properties, len(incoming))

	for name, raw := range incoming {
		declared, ok := t.Members[name]
		if !ok {
			continue // member removed from the class definition
		}

		hint := exportTypeName(declared)
		wrapped, isWrapped := declared.(PropertyValue)
		if isWrapped {
			hint = exportTypeName(wrapped.Value)
		}

		memberValue := ctx.ToPropertyValueOfType(raw, hint)

		if isWrapped {
			if nested := ctx.Types().FindTypeByID(wrapped.TypeID); nested != nil {
				memberValue = nested.ToPropertyValue(memberValue, ctx)
			}
		}

		resolved[name] = memberValue
	}

	return t.Wrap(resolved)
}

// DefaultValue returns an empty mapping.
func (t *ClassPropertyType) DefaultValue() any {
	return Properties{}
}

// ToVariant serializes the class definition. Members are emitted in name
// order, each with its default value in interchange form; the propertyType
// key is left out for members not wrapped with a custom type.
func (t *ClassPropertyType) ToVariant(ctx ExportContext) map[string]any {
	members := make([]any, 0, len(t.Members))

	for _, name := range t.Members.SortedKeys() {
		exportValue := ctx.ToExportValue(t.Members[name])

		member := map[string]any{
			"name":  name,
			"type":  exportValue.TypeName,
			"value": exportValue.Value,
		}
		if exportValue.PropertyTypeName != "" {
			member["propertyType"] = exportValue.PropertyTypeName
		}

		members = append(members, member)
	}

	variant := t.baseVariant()
	variant["members"] = members
	return variant
}

// fromVariant keeps each member's raw definition record as a placeholder.
// ResolveDependencies turns the placeholders into resolved values once the
// whole document has been loaded.
func (t *ClassPropertyType) fromVariant(record map[string]any) {
	for _, member := range variantList(record["members"]) {
		memberRecord := variantMap(member)
		t.Members[variantString(memberRecord["name"])] = memberRecord
	}
}

// ResolveDependencies converts the raw member records left by the first
// load pass into resolved default values. A record may name any type in the
// registry, including ones that were loaded after this class. Members whose
// value is not a raw record, such as ones added programmatically, are left
// alone.
func (t *ClassPropertyType) ResolveDependencies(ctx ExportContext) {
	for _, name := range t.Members.SortedKeys() {
		record := variantMap(t.Members[name])
		if record == nil {
			continue
		}

		t.Members[name] = ctx.ToPropertyValue(ExportValue{
			Value:            record["value"],
			TypeName:         variantString(record["type"]),
			PropertyTypeName: variantString(record["propertyType"]),
		})
	}
}

// AddMember adds a member with the given default value. A value wrapped
// with a class type is refused when it would make this class contain
// itself; the return value reports whether the member was added.
func (t *ClassPropertyType) AddMember(name string, value any, types *PropertyTypes) bool {
	if pv, ok := value.(PropertyValue); ok {
		if memberType := types.FindTypeByID(pv.TypeID); memberType != nil {
			if !t.CanAddMemberOfType(memberType, types) {
				return false
			}
		}
	}

	t.Members[name] = value
	return true
}

// CanAddMemberOfType reports whether a member wrapped with the candidate
// type may be added to this class without creating a membership cycle: a
// class must never contain itself, directly or through the members of
// another class. Non-class candidates are always allowed. The walk over the
// candidate's member graph goes through the given registry and terminates
// even when the graph already contains a cycle.
func (t *ClassPropertyType) CanAddMemberOfType(candidate PropertyType, types *PropertyTypes) bool {
	return t.canAddMemberOfType(candidate, types, make(map[*ClassPropertyType]bool))
}

func (t *ClassPropertyType) canAddMemberOfType(candidate PropertyType, types *PropertyTypes, visited map[*ClassPropertyType]bool) bool {
	classType, ok := candidate.(*ClassPropertyType)
	if !ok {
		return true // non-class members can always be added
	}
	if classType == t {
		return false // a class cannot contain itself
	}
	if visited[classType] {
		return true // already expanded
	}
	visited[classType] = true

	for _, value := range classType.Members {
		pv, ok := value.(PropertyValue)
		if !ok {
			continue
		}
		memberType := types.FindTypeByID(pv.TypeID)
		if memberType == nil {
			continue
		}
		if !t.canAddMemberOfType(memberType, types, visited) {
			return false
		}
	}

	return true
}
