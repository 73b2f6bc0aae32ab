// Package field implements the typed schema nodes that describe document
// fields: what values a field accepts, its default, and the conversion
// between the application-facing (expanded) form and the storage-facing
// (collapsed) form of a value.
//
// Descriptors form a closed set of kinds (see KindEnum) and compose: list,
// set, fixed-arity list and mapping descriptors carry sub-descriptors for
// their elements, keys and values. Parse builds a descriptor from the
// mini-language used in entity type declarations.
package field
