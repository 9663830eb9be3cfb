// Validate command: check a property types file without importing it.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Pandinosaurus/tiled/pkg/properties"
	"github.com/Pandinosaurus/tiled/pkg/typesfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a definition file without importing it",
	Long: `Validate loads a property types file the way import would and reports
what it finds: how many records load, how many are skipped, duplicate
names, and class members that reference a type the file does not define.
The catalog is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	file, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	records, err := typesfile.ReadRecords(file)
	if err != nil {
		return err
	}

	types := properties.NewPropertyTypes()
	types.Load(records)

	problems := findProblems(types)

	if flagJSON {
		if err := printJSON(map[string]any{
			"file":     file,
			"valid":    types.Len(),
			"skipped":  len(records) - types.Len(),
			"problems": problems,
		}); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s: %d types load, %d records skipped\n", file, types.Len(), len(records)-types.Len())
		for _, p := range problems {
			fmt.Println("  problem:", p)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%d problems found", len(problems))
	}
	return nil
}

// findProblems inspects a loaded but unresolved registry. Member values are
// still the raw records at this point, so references that resolution would
// silently drop are visible here.
func findProblems(types *properties.PropertyTypes) []string {
	problems := []string{}

	defined := make(map[string]bool, types.Len())
	for _, t := range types.All() {
		if defined[t.Name()] {
			problems = append(problems, fmt.Sprintf("duplicate name %q: the later definition is shadowed", t.Name()))
		}
		defined[t.Name()] = true
	}

	for _, t := range types.All() {
		class, ok := t.(*properties.ClassPropertyType)
		if !ok {
			continue
		}
		for _, name := range class.Members.SortedKeys() {
			record, ok := class.Members[name].(map[string]any)
			if !ok {
				continue
			}
			ref, _ := record["propertyType"].(string)
			if ref != "" && !defined[ref] {
				problems = append(problems,
					fmt.Sprintf("class %q member %q references undefined type %q", class.Name(), name, ref))
			}
		}
	}
	return problems
}
