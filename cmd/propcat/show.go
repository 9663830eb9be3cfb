// Show command: display one property type with full details.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Display a property type with full details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		backend, dataDir, err := attachCatalog()
		if err != nil {
			return err
		}
		defer backend.Detach()

		types, err := loadRegistry(backend, dataDir)
		if err != nil {
			return err
		}

		t := types.FindTypeByName(name)
		if t == nil {
			return fmt.Errorf("property type %q not found", name)
		}

		ctx := properties.NewExportContext(types, dataDir)
		if flagJSON {
			return printJSON(t.ToVariant(ctx))
		}

		fmt.Printf("id:    %d\n", t.ID())
		fmt.Printf("name:  %s\n", t.Name())
		fmt.Printf("kind:  %s\n", t.Kind())

		switch t := t.(type) {
		case *properties.EnumPropertyType:
			fmt.Printf("storage: %s\n", t.StorageType)
			fmt.Printf("flags:   %t\n", t.ValuesAsFlags)
			fmt.Printf("values:  %s\n", strings.Join(t.Values, ", "))
		case *properties.ClassPropertyType:
			fmt.Printf("members (%d):\n", len(t.Members))
			for _, memberName := range t.Members.SortedKeys() {
				exported := ctx.ToExportValue(t.Members[memberName])
				if exported.PropertyTypeName != "" {
					fmt.Printf("  %s: %v (%s, %s)\n",
						memberName, exported.Value, exported.TypeName, exported.PropertyTypeName)
					continue
				}
				fmt.Printf("  %s: %v (%s)\n", memberName, exported.Value, exported.TypeName)
			}
		}
		return nil
	},
}
