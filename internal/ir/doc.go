// Package ir defines the intermediate representation of a Forma model.
//
// The parser builds one Document per source file; the validator consumes it
// without mutating it. All other internal packages import ir; ir imports
// nothing internal, so it stays the foundational layer with no circular
// dependencies.
//
// Section and field maps preserve declaration order. Order is irrelevant to
// validation semantics but keeps diagnostics and rendered output
// deterministic.
package ir
