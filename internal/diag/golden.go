package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatShort renders diagnostics one per line:
// "<severity> <CODE> <path>:<line>:<col> <message>".
// Callers sort the bag first when they need a stable order.
func FormatShort(items []Diagnostic) string {
	var b strings.Builder
	for i, d := range items {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			severityLabel(d.Severity), d.Code.ID(), normalizePath(d.Path), d.Line, d.Col, sanitizeMessage(d.Message))
		for _, note := range d.Notes {
			fmt.Fprintf(&b, "\nnote %s %s", d.Code.ID(), sanitizeMessage(note.Msg))
		}
		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
