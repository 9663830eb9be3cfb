// Gen command: generate Go declarations from the catalog.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/internal/gen"
)

var (
	genOut     string
	genPackage string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate Go source from the stored definitions",
	Long: `Gen renders the catalog's property types as Go declarations: a typed
constant set per enum, with a String method for string-storage enums, and
a struct per class. The output goes to --out, or to stdout when --out is
"-" or empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, dataDir, err := attachCatalog()
		if err != nil {
			return err
		}
		defer backend.Detach()

		types, err := loadRegistry(backend, dataDir)
		if err != nil {
			return err
		}

		g := gen.NewGenerator(genPackage)
		if genOut == "" || genOut == "-" {
			source, err := g.Render(types)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(source)
			return err
		}

		if err := g.Save(types, genOut); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(map[string]any{"file": genOut, "types": types.Len()})
		}
		fmt.Printf("generated %d types into %s\n", types.Len(), genOut)
		return nil
	},
}

func init() {
	genCmd.Flags().StringVar(&genOut, "out", "", "output file, - or empty for stdout")
	genCmd.Flags().StringVar(&genPackage, "package", "proptypes", "package name of the generated file")
}
