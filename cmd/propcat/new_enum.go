// New-enum command: define an enum property type in the catalog.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

var (
	newEnumValues  []string
	newEnumFlags   bool
	newEnumStorage string
)

var newEnumCmd = &cobra.Command{
	Use:   "new-enum <name>",
	Short: "Create an enum property type",
	Long: `New-enum defines an enumeration with the given member names. Values are
stored as the member name by default; --storage int stores the member index
instead. With --flags, a value is a set of members packed as a bitmask.

Example:
  propcat new-enum Element --values Fire,Water,Earth
  propcat new-enum Abilities --values Fly,Swim,Dig --flags --storage int`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		if newEnumStorage != "int" && newEnumStorage != "string" {
			return fmt.Errorf("invalid storage %q (valid: int, string)", newEnumStorage)
		}
		values := splitValues(newEnumValues)
		if len(values) == 0 {
			return fmt.Errorf("--values must name at least one member")
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

		t := types.AddEnum(name)
		t.Values = values
		t.StorageType = properties.StorageTypeFromString(newEnumStorage)
		t.ValuesAsFlags = newEnumFlags

		if err := storePropertyType(backend, t, types, dataDir); err != nil {
			return err
		}

		if flagJSON {
			ctx := properties.NewExportContext(types, dataDir)
			return printJSON(t.ToVariant(ctx))
		}
		fmt.Printf("created enum %q (id %d)\n", name, t.ID())
		return nil
	},
}

// splitValues flattens repeated --values flags and splits comma-separated
// entries, dropping empty segments.
func splitValues(raw []string) []string {
	var values []string
	for _, entry := range raw {
		for _, v := range strings.Split(entry, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

func init() {
	newEnumCmd.Flags().StringSliceVar(&newEnumValues, "values", nil, "comma-separated member names (required)")
	newEnumCmd.Flags().BoolVar(&newEnumFlags, "flags", false, "treat values as combinable bitflags")
	newEnumCmd.Flags().StringVar(&newEnumStorage, "storage", "string", "value storage: int or string")
	newEnumCmd.MarkFlagRequired("values")
}
