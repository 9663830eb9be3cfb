// Package typesfile reads and writes property type definition files. The
// native format is a JSON array of definition records, as written by the
// types editor's export; documents that wrap the array under a
// "propertyTypes" key, as project files do, are accepted too. Files with a
// .cbor extension use a CBOR encoding of the same shape. Writes replace the
// target file atomically.
package typesfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/Pandinosaurus/tiled/pkg/properties"
)

// ErrInvalidDocument marks a file that decoded to neither a definition list
// nor a document wrapping one.
var ErrInvalidDocument = errors.New("not a property types document")

// Load reads a definition file into a fresh registry. File references in
// the definitions are resolved relative to the file's directory. Malformed
// individual records are skipped; only document-level failures are errors.
func Load(path string) (*properties.PropertyTypes, error) {
	types := properties.NewPropertyTypes()
	if err := LoadInto(path, types); err != nil {
		return nil, err
	}
	return types, nil
}

// LoadInto reads a definition file into the given registry, replacing its
// contents.
func LoadInto(path string, types *properties.PropertyTypes) error {
	records, err := ReadRecords(path)
	if err != nil {
		return err
	}
	types.LoadFrom(records, filepath.Dir(path))
	return nil
}

// ReadRecords reads a definition file and returns its raw records without
// constructing types. Callers that rewrite records before loading, or
// inspect them for reporting, start here.
func ReadRecords(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records, err := decodeRecords(data, isCBOR(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// Save writes every definition of the registry to the given path. File
// references are made relative to the file's directory. The file is
// replaced atomically: the data goes to a temporary file first, which is
// renamed over the target after a successful sync.
func Save(path string, types *properties.PropertyTypes) error {
	records := types.ToVariant(filepath.Dir(path))

	data, err := encodeRecords(records, isCBOR(path))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return writeAtomic(path, data)
}

func isCBOR(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cbor")
}

func decodeRecords(data []byte, asCBOR bool) ([]any, error) {
	var document any
	if asCBOR {
		if err := cborDecoder().Unmarshal(data, &document); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &document); err != nil {
			return nil, err
		}
	}

	switch doc := document.(type) {
	case []any:
		return doc, nil
	case map[string]any:
		// Project documents keep the list under a key; a document
		// without the key simply defines no types.
		records, _ := doc["propertyTypes"].([]any)
		return records, nil
	}
	return nil, ErrInvalidDocument
}

func encodeRecords(records []any, asCBOR bool) ([]byte, error) {
	if asCBOR {
		return cbor.Marshal(records)
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// cborDecoder returns a decode mode that produces the same value shapes as
// the JSON decoder, so the registry sees map[string]any records either way.
func cborDecoder() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}

	return dm
}

// writeAtomic writes data to path via a temp file in the same directory,
// syncing before the rename so a crash never leaves a torn file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".types-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
