// Package properties implements the custom property type system: user-defined
// enum and class types, the registry that owns them, and the export context
// that converts typed values to and from the generic interchange
// representation used by maps, tilesets and project files.
//
// Loading definitions is a two phase process. The first phase materializes a
// type object for every well-formed record; the second phase resolves
// cross-references between types, which allows class members to refer to
// types declared later in the same document.
package properties
