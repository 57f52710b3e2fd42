// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts avoid persistence and transport details and describe the write
// boundaries where recipe, membership and user invariants hold atomically.
package aggregates
