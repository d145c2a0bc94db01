// Package token defines lexical token kinds and trivia for rxc sources.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Primitive type names (i32, u32, usize, isize, bool, char, str, String)
//     are identifiers; the type system recognizes them, not the lexer.
//   - Integer suffixes stay inside IntLit.Text; Token.Suffix holds the split.
package token
