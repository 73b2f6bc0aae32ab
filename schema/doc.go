// Package schema compiles declarative entity type definitions into immutable
// entity type schemas: a table of field descriptors plus the short-name
// mapping, required/write-once sets and default table that the document
// entity consults at runtime.
//
// A definition may name base schemas; their entries are merged underneath the
// subtype's own, with diamond collisions rejected at definition time. The
// identity field is injected for root definitions and inherited untouched
// everywhere else.
package schema
