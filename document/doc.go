// Package document implements the dirty-tracking document entity: typed
// attribute access backed by a compiled schema, change-tracking container
// wrappers for list/mapping/set fields, an operation compiler that folds
// dirty fields and queued update fragments into one operator document, and
// the save protocol that applies it through a single atomic upsert.
//
// A Document holds application-facing (expanded) values. Storage-facing
// (collapsed) values exist only inside the pending-operation table and on
// the wire; the two forms meet in Operations.
//
// Documents are not safe for concurrent mutation. The design assumes one
// logical owner at a time; the atomicity of Save comes from the store's
// find-and-modify primitive, not from in-process locking.
package document

import (
	"docmapper/errors"
)

const (
	// ErrUnknownField reports an operation on a field the schema does not
	// declare.
	ErrUnknownField errors.Code = "UnknownField"
	// ErrInvalidOperator reports a direct $set enqueue; $set is synthesized
	// from dirty fields only.
	ErrInvalidOperator errors.Code = "InvalidOperator"
	// ErrReadOnly reports a typed assignment to a read-only field.
	ErrReadOnly errors.Code = "ReadOnly"
	// ErrAlreadySet reports a typed assignment to a write-once field that
	// already holds a value.
	ErrAlreadySet errors.Code = "AlreadySet"
	// ErrMissingRequiredFields reports a save attempted with required
	// fields still unset.
	ErrMissingRequiredFields errors.Code = "MissingRequiredFields"
	// ErrNoIdentity reports a delete of a document that was never saved.
	ErrNoIdentity errors.Code = "NoIdentity"
	// ErrStaleContainer reports a container mutation after the owning
	// document was discarded.
	ErrStaleContainer errors.Code = "StaleContainer"
)
