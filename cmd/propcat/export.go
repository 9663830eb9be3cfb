// Export command: write the catalog to a property types file.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/pkg/typesfile"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export property types to a definition file",
	Long: `Export writes every stored definition to the given file as a JSON array,
or CBOR when the file name ends in .cbor. File references in the
definitions are written relative to the file's directory. The file is
replaced atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve %s: %w", args[0], err)
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
		if err := typesfile.Save(file, types); err != nil {
			return err
		}

		if flagJSON {
			return printJSON(map[string]any{"file": file, "exported": types.Len()})
		}
		fmt.Printf("exported %d types to %s\n", types.Len(), file)
		return nil
	},
}
