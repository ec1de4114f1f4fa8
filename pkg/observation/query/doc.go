// Package query validates filter specifications against the field
// allow-list and assembles them into a single parameterized SQL predicate.
//
// # Injection Surface
//
// Field names may only come from the allow-list; a FilterSpec referencing
// any other key fails validation before a predicate exists. Criterion and
// keyword values are always bound parameters; no user input is ever
// concatenated into predicate text.
//
// # Determinism
//
// Build is pure: the same FilterSpec and allow-list always produce the same
// predicate structure and argument order, so the builder is unit-testable
// without a live store. Results carry a stable default order (id ascending)
// and an id tie-break for any caller-chosen sort field.
package query
