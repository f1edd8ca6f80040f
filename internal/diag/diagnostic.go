package diag

import (
	"brook/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a resolved, file-independent record of one finding.
// Path/Line/Col are filled at creation so a Diagnostic outlives its FileSet.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Path     string
	Line     uint32
	Col      uint32
	Notes    []Note
}
