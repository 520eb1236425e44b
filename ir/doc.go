// Package ir provides the source tree of a DAT document.
//
// # Overview
//
// A parsed document is a tree of [Node]s rooted at a [Root]. Unlike a purely
// semantic representation, every node keeps its exact source range, whether
// its text was quoted, and (when requested) the comments and blank line runs
// around it, so that editors can map positions back to nodes.
//
// # Node Types
//
//   - DictionaryType: the root and every `{ ... }` block. Children are
//     PropertyType nodes.
//   - ListType: every `[ ... ]` block. Children are values, dictionaries or
//     lists.
//   - PropertyType: a key with an optional value.
//   - ValueType: scalar text.
//   - CommentType and WhitespaceType: only present when the document was
//     parsed with metadata.
//
// # Immutability
//
// A tree is never modified after it is built. An edit produces a new tree.
// Parent pointers are for lookup only; nodes are owned top down.
//
// # Lazy Subtrees
//
// A container may be built lazily, in which case its children are produced
// from the source on first access to [Node.Children] (or any accessor using
// it). This happens at most once and is safe for concurrent readers.
package ir
