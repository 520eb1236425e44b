// Package token provides tokenization of DAT files.
//
// [Tokenize] is a function for tokenizing bytes. [Tokenizer] is the streaming
// form used by the tree builder, which can also resume inside a container
// and skip one wholesale.
//
// Tokenizing never fails. Malformed input is reported to a [diag.Sink] and
// scanning carries on.
package token
