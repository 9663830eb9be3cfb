// Import command: load a property types file into the catalog.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/internal/catalog"
	"github.com/Pandinosaurus/tiled/pkg/properties"
	"github.com/Pandinosaurus/tiled/pkg/typesfile"
)

var importMerge bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import property types from a definition file",
	Long: `Import reads a property types file (JSON, or CBOR for .cbor files) and
stores its definitions in the catalog. By default the catalog contents are
replaced. With --merge, definitions are matched by name: a matching name
updates the stored definition and keeps its id, a new name is added under
a fresh id. Records of unknown kind are skipped either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// importResult names the registry after an import, the subset of its types
// that must be written back, and the counts reported to the user.
type importResult struct {
	types    *properties.PropertyTypes
	store    []properties.PropertyType
	replaced int
	skipped  int
}

func runImport(cmd *cobra.Command, args []string) error {
	file, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	records, err := typesfile.ReadRecords(file)
	if err != nil {
		return err
	}

	backend, dataDir, err := attachCatalog()
	if err != nil {
		return err
	}
	defer backend.Detach()

	var result importResult
	if importMerge {
		result, err = mergeRecords(backend, dataDir, records, filepath.Dir(file))
	} else {
		result, err = replaceRecords(backend, records, filepath.Dir(file))
	}
	if err != nil {
		return err
	}

	for _, t := range result.store {
		if err := storePropertyType(backend, t, result.types, dataDir); err != nil {
			return err
		}
	}

	if flagJSON {
		return printJSON(map[string]int{
			"imported": len(result.store),
			"replaced": result.replaced,
			"skipped":  result.skipped,
		})
	}
	fmt.Printf("imported %d types (%d replaced, %d skipped)\n", len(result.store), result.replaced, result.skipped)
	return nil
}

// replaceRecords drops every stored definition and loads the file's records
// into a fresh registry.
func replaceRecords(backend *catalog.Backend, records []any, dir string) (importResult, error) {
	table, err := backend.GetTable(catalog.TablePropertyTypes)
	if err != nil {
		return importResult{}, fmt.Errorf("get table: %w", err)
	}
	rows, err := table.Fetch(nil)
	if err != nil {
		return importResult{}, fmt.Errorf("fetch property types: %w", err)
	}
	for _, r := range rows {
		if err := deleteStoredType(backend, r.(*catalog.PropertyTypeRow).ID); err != nil {
			return importResult{}, err
		}
	}

	types := properties.NewPropertyTypes()
	types.LoadFrom(records, dir)
	return importResult{
		types:   types,
		store:   types.All(),
		skipped: len(records) - types.Len(),
	}, nil
}

// mergeRecords grafts the file's records onto the stored registry. Matching
// names keep their stored id, new names get a fresh one; member references
// are resolved against the merged registry, so an incoming definition may
// refer to stored types and to other incoming ones alike.
func mergeRecords(backend *catalog.Backend, dataDir string, records []any, dir string) (importResult, error) {
	types, err := loadRegistry(backend, dataDir)
	if err != nil {
		return importResult{}, err
	}

	result := importResult{types: types}
	for _, record := range records {
		rec, ok := record.(map[string]any)
		if !ok {
			result.skipped++
			continue
		}
		name, _ := rec["name"].(string)
		existing := types.FindTypeByName(name)
		if existing != nil {
			rec["id"] = existing.ID()
		} else {
			// A fresh id comes from the registry counter, which
			// never hands out a stored id again.
			delete(rec, "id")
		}

		t := properties.CreateFromVariant(rec)
		if t == nil {
			result.skipped++
			continue
		}
		if existing != nil {
			types.RemoveByID(existing.ID())
			result.replaced++
		}
		types.Add(t)
		result.store = append(result.store, t)
	}

	ctx := properties.NewExportContext(types, dir)
	for _, t := range result.store {
		t.ResolveDependencies(ctx)
	}
	return result, nil
}

func init() {
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "merge into the catalog instead of replacing it")
}
