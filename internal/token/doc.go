// Package token defines lexical token kinds and trivia for SysML v2 and
// KerML source text.
// Invariants:
//   - Token.Text is copied from the source snapshot that produced it.
//   - Token.Span matches Text exactly (Start..End, byte offsets).
//   - Metadata annotations are lexed as '@' (Kind: At) + name segments;
//     there are no per-annotation token kinds.
//   - Comments never appear in the main token stream; they are leading
//     Trivia on the following token. 'doc' bodies are block comments and
//     are recovered from trivia by the parser.
//   - Library type names (Part, DataValue, ...) are plain identifiers.
//     They are recognized by the semantic layer, not the lexer.
package token
