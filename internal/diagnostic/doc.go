// Package diagnostic collects structured schema-definition problems.
//
// The schema compiler fails fast at entity-type definition time, but a single
// definition can be wrong in several places at once; diagnostics let it report
// every unparseable field spec and colliding inherited field in one error
// instead of stopping at the first.
package diagnostic
