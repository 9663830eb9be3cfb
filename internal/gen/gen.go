// Package gen renders Go declarations from a property-type registry. Enums
// become named int types with iota constants (bit-shifted for flag enums)
// and a String method when the enum stores names; classes become structs
// with best-effort field types derived from their member defaults.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

// Generator renders one Go source file per registry.
type Generator struct {
	PackageName string
}

// NewGenerator returns a Generator targeting the given package name.
func NewGenerator(packageName string) *Generator {
	if packageName == "" {
		packageName = "proptypes"
	}
	return &Generator{PackageName: packageName}
}

// Render produces the formatted Go source for every type in the registry,
// in registry order.
func (g *Generator) Render(types *properties.PropertyTypes) ([]byte, error) {
	f := jen.NewFile(g.PackageName)
	f.HeaderComment("Code generated by propcat gen. DO NOT EDIT.")

	idents := assignIdents(types)
	for _, t := range types.All() {
		switch t := t.(type) {
		case *properties.EnumPropertyType:
			g.renderEnum(f, t, idents)
		case *properties.ClassPropertyType:
			g.renderClass(f, t, types, idents)
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering generated code: %w", err)
	}
	return buf.Bytes(), nil
}

// Save renders the registry and writes the result to path.
func (g *Generator) Save(types *properties.PropertyTypes, path string) error {
	src, err := g.Render(types)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("writing generated file: %w", err)
	}
	return nil
}

// assignIdents maps every type id to a unique exported identifier. Name
// collisions after sanitizing take an id suffix.
func assignIdents(types *properties.PropertyTypes) map[int]string {
	idents := make(map[int]string)
	taken := make(map[string]bool)
	for _, t := range types.All() {
		ident := identFor(t.Name())
		if taken[ident] {
			ident = fmt.Sprintf("%s%d", ident, t.ID())
		}
		taken[ident] = true
		idents[t.ID()] = ident
	}
	return idents
}

func (g *Generator) renderEnum(f *jen.File, t *properties.EnumPropertyType, idents map[int]string) {
	ident := idents[t.ID()]
	if t.ValuesAsFlags {
		f.Commentf("%s mirrors the %s flag enum.", ident, t.Name())
	} else {
		f.Commentf("%s mirrors the %s enum.", ident, t.Name())
	}
	f.Type().Id(ident).Int()

	if len(t.Values) > 0 {
		constIdents := valueIdents(ident, t.Values)
		f.Const().DefsFunc(func(group *jen.Group) {
			for i := range t.Values {
				switch {
				case i > 0:
					group.Id(constIdents[i])
				case t.ValuesAsFlags:
					group.Id(constIdents[i]).Id(ident).Op("=").Lit(1).Op("<<").Iota()
				default:
					group.Id(constIdents[i]).Id(ident).Op("=").Iota()
				}
			}
		})

		if t.StorageType == properties.StorageString {
			g.renderEnumString(f, t, ident, constIdents)
		}
	}
}

// renderEnumString emits the String method mapping values back to their
// stored names, matching the enum's export behavior.
func (g *Generator) renderEnumString(f *jen.File, t *properties.EnumPropertyType, ident string, constIdents []string) {
	if t.ValuesAsFlags {
		f.Func().Params(jen.Id("v").Id(ident)).Id("String").Params().String().BlockFunc(func(group *jen.Group) {
			group.Var().Id("names").Index().String()
			for i, value := range t.Values {
				group.If(jen.Id("v").Op("&").Id(constIdents[i]).Op("!=").Lit(0)).Block(
					jen.Id("names").Op("=").Append(jen.Id("names"), jen.Lit(value)),
				)
			}
			group.Return(jen.Qual("strings", "Join").Call(jen.Id("names"), jen.Lit(",")))
		})
		return
	}

	f.Func().Params(jen.Id("v").Id(ident)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("v")).BlockFunc(func(group *jen.Group) {
			for i, value := range t.Values {
				group.Case(jen.Id(constIdents[i])).Block(jen.Return(jen.Lit(value)))
			}
		}),
		jen.Return(jen.Lit("")),
	)
}

func (g *Generator) renderClass(f *jen.File, t *properties.ClassPropertyType, types *properties.PropertyTypes, idents map[int]string) {
	ident := idents[t.ID()]
	f.Commentf("%s mirrors the %s class.", ident, t.Name())
	f.Type().Id(ident).StructFunc(func(group *jen.Group) {
		for _, name := range t.Members.SortedKeys() {
			group.Id(identFor(name)).Add(fieldType(t.Members[name], types, idents))
		}
	})
}

// fieldType picks the Go type for a class member from its default value.
// Members wrapped in a custom type reference that type's generated
// identifier; everything else maps to the plain Go equivalent.
func fieldType(value any, types *properties.PropertyTypes, idents map[int]string) *jen.Statement {
	switch v := value.(type) {
	case properties.PropertyValue:
		if ident, ok := idents[v.TypeID]; ok {
			return jen.Id(ident)
		}
		return fieldType(v.Value, types, idents)
	case bool:
		return jen.Bool()
	case int:
		return jen.Int()
	case float64:
		return jen.Float64()
	case string, properties.Color, properties.FilePath:
		return jen.String()
	case properties.ObjectRef:
		return jen.Int()
	case properties.Properties, map[string]any:
		return jen.Map(jen.String()).Id("any")
	default:
		return jen.Id("any")
	}
}

// valueIdents maps enum values to constant identifiers, de-duplicating with
// positional suffixes.
func valueIdents(typeIdent string, values []string) []string {
	idents := make([]string, len(values))
	taken := make(map[string]bool)
	for i, value := range values {
		ident := typeIdent + identFor(value)
		if taken[ident] {
			ident = fmt.Sprintf("%s%d", ident, i)
		}
		taken[ident] = true
		idents[i] = ident
	}
	return idents
}

// identFor sanitizes a type, value, or member name into an exported Go
// identifier.
func identFor(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			if upper {
				b.WriteRune(unicode.ToUpper(r))
				upper = false
			} else {
				b.WriteRune(r)
			}
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteString("X")
			}
			b.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}
