// Package parse builds [ir] source trees from DAT text.
//
// Parsing never fails: malformed input yields diagnostics and a tree with
// unclosed or skipped containers. Options select comment and whitespace
// capture ([ParseMetadata]), deferred subtrees ([ParseLazy]) and the nesting
// limit ([ParseMaxDepth]).
package parse
