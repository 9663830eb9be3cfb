// Delete command: remove a property type from the catalog.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a property type",
	Long: `Delete removes the named property type from the catalog. Class members
of other types that reference it keep their stored values but lose the
type annotation on the next export.`,
	Args: cobra.ExactArgs(1),
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

		if err := deleteStoredType(backend, t.ID()); err != nil {
			return err
		}
		types.RemoveByID(t.ID())

		if flagJSON {
			return printJSON(map[string]any{"deleted": name, "id": t.ID()})
		}
		fmt.Printf("deleted %s %q (id %d)\n", t.Kind(), name, t.ID())
		return nil
	},
}
