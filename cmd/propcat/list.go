// List command: enumerate the property types in the catalog.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List property types",
	Long: `List prints the property types stored in the catalog, one per line.
An optional kind argument restricts the listing to "enum" or "class" types.

Example:
  propcat list
  propcat list enum
  propcat list class --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	var kind properties.Kind
	if len(args) == 1 {
		kind = properties.KindFromString(args[0])
		if args[0] == "" || kind == properties.KindInvalid {
			return fmt.Errorf("unknown kind %q (valid: enum, class)", args[0])
		}
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

	listed := make([]properties.PropertyType, 0, types.Len())
	for _, t := range types.All() {
		if len(args) == 1 && t.Kind() != kind {
			continue
		}
		listed = append(listed, t)
	}

	if flagJSON {
		ctx := properties.NewExportContext(types, dataDir)
		records := make([]any, 0, len(listed))
		for _, t := range listed {
			records = append(records, t.ToVariant(ctx))
		}
		return printJSON(records)
	}

	for _, t := range listed {
		fmt.Printf("%d\t%s\t%s\t%s\n", t.ID(), t.Kind(), t.Name(), kindSummary(t))
	}
	return nil
}
