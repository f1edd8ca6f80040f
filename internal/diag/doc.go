// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Every phase (lexer, parser, generator, object decoder) fails with a single
// *Error on the first problem it meets; the pipeline never produces partial
// output. An Error carries the Code (kind), a short message, the file path,
// the full text of the offending line and a 1-based line/column pair, plus an
// optional hint and snippet.
//
// Package diag does not perform terminal formatting. Rendering lives in
// internal/diagfmt. Multi-file builds collect one Diagnostic per failed file
// into a Bag through a Reporter.
package diag
