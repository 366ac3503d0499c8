// Package parser builds ast.Tree values from token streams.
//
// The parser is recursive descent with single-token lookahead. It always
// runs to EOF: on a malformed member it reports a diagnostic, resyncs to
// the next member boundary (';', a member starter, '}' or EOF), and keeps
// going, so one error never hides the rest of the file. Parsing the same
// content always yields the same tree and the same diagnostics in the
// same order.
package parser
