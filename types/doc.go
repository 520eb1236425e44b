// Package types implements the type parsers of package schema: scalars,
// lists, dictionaries, comma separated lists, compound objects and the
// game's domain scalars. Importing the package registers a factory for
// every type id.
//
// Every parser follows the same contract. A missing node falls back to the
// property's default. A node of the wrong shape or an unparsable value
// fails with a diagnostic. Advisory problems, like element counts out of
// bounds or duplicate list values, are reported without failing.
package types
