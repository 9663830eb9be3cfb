// New-class command: define a class property type in the catalog.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

var newClassMembers []string

var newClassCmd = &cobra.Command{
	Use:   "new-class <name>",
	Short: "Create a class property type",
	Long: `New-class defines a record type with the given members. Each --member
takes a name=type pair, where type is one of string, bool, int, float,
color, file, object or class. Appending :TypeName references a custom
property type defined in the catalog; the member then starts at that
type's default value.

A class member may not reference a class that contains this class, directly
or through other classes.

Example:
  propcat new-class Monster --member hp=int --member name=string
  propcat new-class Monster --member element=enum:Element --member loot=class:LootTable`,
	Args: cobra.ExactArgs(1),
	RunE: runNewClass,
}

func runNewClass(cmd *cobra.Command, args []string) error {
	name := args[0]
	if len(newClassMembers) == 0 {
		return fmt.Errorf("--member must be given at least once")
	}

	backend, dataDir, err := attachCatalog()
	if err != nil {
		return err
	}
	defer backend.Detach()

	types, err := loadRegistry(backend, dataDir)
	if err != nil {
		return err
	}
	if types.FindTypeByName(name) != nil {
		return fmt.Errorf("property type %q already exists", name)
	}

	t := types.AddClass(name)
	for _, spec := range newClassMembers {
		memberName, value, err := parseMemberSpec(spec, types)
		if err != nil {
			return err
		}
		if !t.AddMember(memberName, value, types) {
			return fmt.Errorf("member %q would make %q contain itself", memberName, name)
		}
	}

	if err := storePropertyType(backend, t, types, dataDir); err != nil {
		return err
	}

	if flagJSON {
		ctx := properties.NewExportContext(types, dataDir)
		return printJSON(t.ToVariant(ctx))
	}
	fmt.Printf("created class %q (id %d, %d members)\n", name, t.ID(), len(t.Members))
	return nil
}

// parseMemberSpec parses one name=type[:propertyType] member argument into
// the member name and its default value.
func parseMemberSpec(spec string, types *properties.PropertyTypes) (string, any, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, fmt.Errorf("invalid member %q (expected name=type)", spec)
	}
	memberName := parts[0]

	typeTag, refName, _ := strings.Cut(parts[1], ":")
	if refName != "" {
		ref := types.FindTypeByName(refName)
		if ref == nil {
			return "", nil, fmt.Errorf("member %q references unknown property type %q", memberName, refName)
		}
		if ref.Kind().String() != typeTag && typeTag != "" {
			return "", nil, fmt.Errorf("member %q: %q is a %s type, not %s", memberName, refName, ref.Kind(), typeTag)
		}
		return memberName, ref.Wrap(ref.DefaultValue()), nil
	}

	var value any
	switch typeTag {
	case "string":
		value = ""
	case "bool":
		value = false
	case "int":
		value = 0
	case "float":
		value = 0.0
	case "color":
		value = properties.Color("")
	case "file":
		value = properties.FilePath("")
	case "object":
		value = properties.ObjectRef(0)
	case "class":
		value = properties.Properties{}
	default:
		return "", nil, fmt.Errorf("member %q has unknown type %q (valid: string, bool, int, float, color, file, object, class)", memberName, typeTag)
	}
	return memberName, value, nil
}

func init() {
	newClassCmd.Flags().StringArrayVar(&newClassMembers, "member", nil, "member as name=type[:propertyType] (repeatable)")
	newClassCmd.MarkFlagRequired("member")
}
