// Revisions command: list the change history recorded by the catalog.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/internal/catalog"
)

var revisionsCmd = &cobra.Command{
	Use:   "revisions [name]",
	Short: "List recorded changes, newest first",
	Long: `Revisions prints the change history of the catalog: one row per create,
update or delete, newest first. An optional name argument restricts the
listing to changes of that property or object type.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, _, err := attachCatalog()
		if err != nil {
			return err
		}
		defer backend.Detach()

		table, err := backend.GetTable(catalog.TableRevisions)
		if err != nil {
			return fmt.Errorf("get table: %w", err)
		}

		filter := map[string]any{}
		if len(args) == 1 {
			filter["ref"] = args[0]
		}
		entities, err := table.Fetch(filter)
		if err != nil {
			return fmt.Errorf("fetch revisions: %w", err)
		}

		if flagJSON {
			return printJSON(entities)
		}
		for _, entity := range entities {
			rev, ok := entity.(*catalog.Revision)
			if !ok {
				continue
			}
			fmt.Printf("%s\t%s\t%s\t%s\n",
				rev.CreatedAt.Format("2006-01-02 15:04:05"), rev.Action, rev.Entity, rev.Ref)
		}
		return nil
	},
}
