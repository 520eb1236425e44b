// Package eval resolves values declared in schema definitions that are not
// plain literals.
//
// A [Value] is one of:
//
//   - a literal, as decoded from the definition file;
//   - a property reference, "@Name" or "(Name)", reading another property of
//     the same file through a [Context];
//   - a data reference, "#Name", reading a value of the hosting schema object;
//   - a [Switch] of [Case]s guarded by conditions built from And, Or, Not
//     and comparisons;
//   - an expression, "=expr", compiled with expr-lang. Expressions without
//     references are folded to literals when parsed.
//
// Expressions may call the functions registered with [Register].
package eval
