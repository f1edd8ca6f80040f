// Package token defines lexical token kinds for the brook compiler.
// Invariants:
//   - Token.Text is exactly the source text covered by Token.Span.
//   - Whitespace and comments never appear in the token stream.
//   - Integer width names (i8 ... i128) are identifiers; the generator
//     recognises them, not the lexer.
package token
