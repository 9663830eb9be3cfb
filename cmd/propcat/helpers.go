// Shared helpers for propcat commands: directory resolution, catalog
// attachment, and moving property types between the catalog and a registry.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Pandinosaurus/tiled/internal/catalog"
	"github.com/Pandinosaurus/tiled/internal/paths"
	"github.com/Pandinosaurus/tiled/pkg/properties"
)

// resolveDirs returns the config and data directories plus the loaded
// configuration, honoring flags > config file > environment > defaults.
func resolveDirs() (configDir, dataDir string, v *viper.Viper, err error) {
	configDir, err = paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return "", "", nil, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err = loadConfig(configDir)
	if err != nil {
		return "", "", nil, err
	}
	dataDir, err = paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", "", nil, fmt.Errorf("resolve data dir: %w", err)
	}
	return configDir, dataDir, v, nil
}

// attachCatalog attaches a backend using the resolved configuration. The
// caller must defer backend.Detach(). The returned dataDir doubles as the
// context path for file references in definitions.
func attachCatalog() (*catalog.Backend, string, error) {
	_, dataDir, v, err := resolveDirs()
	if err != nil {
		return nil, "", err
	}

	backend := catalog.NewBackend()
	if flagVerbose {
		backend.SetLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
	}
	cfg := catalog.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := backend.Attach(cfg); err != nil {
		return nil, "", fmt.Errorf("attach catalog: %w", err)
	}
	return backend, dataDir, nil
}

// loadRegistry rebuilds a property-type registry from the stored
// definitions, in catalog order.
func loadRegistry(backend *catalog.Backend, dataDir string) (*properties.PropertyTypes, error) {
	table, err := backend.GetTable(catalog.TablePropertyTypes)
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	rows, err := table.Fetch(nil)
	if err != nil {
		return nil, fmt.Errorf("fetch property types: %w", err)
	}

	records := make([]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, map[string]any(r.(*catalog.PropertyTypeRow).Definition))
	}

	types := properties.NewPropertyTypes()
	types.LoadFrom(records, dataDir)
	return types, nil
}

// storePropertyType writes one type definition through to the catalog. The
// registry must be the one owning t so member references serialize with
// their type names.
func storePropertyType(backend *catalog.Backend, t properties.PropertyType, types *properties.PropertyTypes, dataDir string) error {
	table, err := backend.GetTable(catalog.TablePropertyTypes)
	if err != nil {
		return fmt.Errorf("get table: %w", err)
	}
	ctx := properties.NewExportContext(types, dataDir)
	row := &catalog.PropertyTypeRow{
		ID:         t.ID(),
		Name:       t.Name(),
		Kind:       t.Kind().String(),
		Definition: t.ToVariant(ctx),
	}
	if _, err := table.Set("", row); err != nil {
		return fmt.Errorf("store %s: %w", t.Name(), err)
	}
	return nil
}

// deleteStoredType removes one type definition from the catalog.
func deleteStoredType(backend *catalog.Backend, id int) error {
	table, err := backend.GetTable(catalog.TablePropertyTypes)
	if err != nil {
		return fmt.Errorf("get table: %w", err)
	}
	if err := table.Delete(strconv.Itoa(id)); err != nil {
		return fmt.Errorf("delete type %d: %w", id, err)
	}
	return nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// kindSummary describes a type in one line for list output.
func kindSummary(t properties.PropertyType) string {
	switch t := t.(type) {
	case *properties.EnumPropertyType:
		storage := t.StorageType.String()
		if t.ValuesAsFlags {
			return fmt.Sprintf("%d values, %s storage, flags", len(t.Values), storage)
		}
		return fmt.Sprintf("%d values, %s storage", len(t.Values), storage)
	case *properties.ClassPropertyType:
		return fmt.Sprintf("%d members", len(t.Members))
	}
	return ""
}
