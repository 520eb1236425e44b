// Package schema holds the definitions DAT files are validated against.
//
// A schema is a set of asset types. Each AssetType lists the properties a
// file of that type may contain, with inherited properties already merged
// in. A Property names its Type, the parser which turns a source tree node
// into a Go value. Type parsers are built from definition values by
// factories registered under a string id (see RegisterFactory); the
// concrete parsers live in package types.
//
// Definitions are read from JSON or YAML files through a Source and cached
// by a Database, which fetches every type at most once.
package schema
