package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"brook/internal/diag"
	"brook/internal/source"
)

type palette struct {
	sev, code, path, gutter, caret, hint *color.Color
}

func newPalette(enabled bool, sev diag.Severity) palette {
	p := palette{
		sev:    color.New(color.FgRed, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		hint:   color.New(color.FgGreen),
	}
	switch sev {
	case diag.SevWarning:
		p.sev = color.New(color.FgYellow, color.Bold)
		p.caret = color.New(color.FgYellow, color.Bold)
	case diag.SevInfo:
		p.sev = color.New(color.FgBlue, color.Bold)
		p.caret = color.New(color.FgBlue, color.Bold)
	}
	for _, c := range []*color.Color{p.sev, p.code, p.path, p.gutter, p.caret, p.hint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Error renders one compiler error:
//
//	error[SYN2001]: expected `;`, found `}`
//	  --> main.bk:3:9
//	   |
//	 3 | let x = 1
//	   |         ^
//	   = hint: add `;`
func Error(w io.Writer, e *diag.Error, opts PrettyOpts) {
	if e == nil {
		return
	}
	width := uint32(1)
	if e.Span.End > e.Span.Start {
		width = e.Span.End - e.Span.Start
	}
	r := render{
		sev:     diag.SevError,
		code:    e.Code,
		message: e.Message,
		path:    displayPath(e.Path, opts.PathMode, opts.BaseDir),
		line:    e.Line,
		col:     e.Col,
		text:    e.Source,
		span:    spanText(e.Source, e.Col, width),
	}
	if e.Hint != "" {
		r.notes = append(r.notes, "hint: "+e.Hint)
	}
	if e.Snippet != "" {
		r.notes = append(r.notes, "try: "+e.Snippet)
	}
	r.write(w, opts)
}

// Pretty renders every diagnostic of bag; fs supplies the source lines.
// Expects bag.Sort() beforehand.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		r := render{
			sev:     d.Severity,
			code:    d.Code,
			message: d.Message,
			path:    displayPath(d.Path, opts.PathMode, opts.BaseDir),
			line:    d.Line,
			col:     d.Col,
		}
		if fs != nil && d.Line > 0 {
			if f := fs.Get(d.Primary.File); f != nil && f.Path == d.Path {
				r.text = f.GetLine(d.Line)
				r.span = d.Primary.Text(f)
			}
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				r.notes = append(r.notes, "note: "+n.Msg)
			}
		}
		r.write(w, opts)
	}
}

// Summary is the closing "N error(s)" line.
func Summary(w io.Writer, errors int, opts PrettyOpts) {
	if errors == 0 {
		return
	}
	p := newPalette(opts.Color, diag.SevError)
	noun := "errors"
	if errors == 1 {
		noun = "error"
	}
	fmt.Fprintf(w, "%s: aborting due to %d %s\n", p.sev.Sprint("error"), errors, noun)
}

type render struct {
	sev     diag.Severity
	code    diag.Code
	message string
	path    string
	line    uint32
	col     uint32
	text    string // source line, may be empty
	span    string // highlighted text on that line
	notes   []string
}

func (r render) write(w io.Writer, opts PrettyOpts) {
	p := newPalette(opts.Color, r.sev)
	fmt.Fprintf(w, "%s%s: %s\n",
		p.sev.Sprint(strings.ToLower(r.sev.String())),
		p.code.Sprintf("[%s]", r.code.ID()),
		r.message)
	if r.line == 0 {
		fmt.Fprintf(w, "  --> %s\n", p.path.Sprint(r.path))
		return
	}
	fmt.Fprintf(w, "  --> %s\n", p.path.Sprintf("%s:%d:%d", r.path, r.line, r.col))
	if r.text == "" && len(r.notes) == 0 {
		return
	}

	num := fmt.Sprint(r.line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, "%s %s\n", pad, p.gutter.Sprint("|"))
	if r.text != "" {
		tab := strings.Repeat(" ", opts.tabWidth())
		line := strings.ReplaceAll(r.text, "\t", tab)
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)

		prefix := strings.ReplaceAll(prefixRunes(r.text, max(r.col, 1)-1), "\t", tab)
		marked := strings.ReplaceAll(r.span, "\t", tab)
		n := max(runewidth.StringWidth(marked), 1)
		carets := "^" + strings.Repeat("~", n-1)
		fmt.Fprintf(w, "%s %s %s%s\n", pad, p.gutter.Sprint("|"),
			strings.Repeat(" ", runewidth.StringWidth(prefix)), p.caret.Sprint(carets))
	}
	for _, n := range r.notes {
		fmt.Fprintf(w, "%s %s %s\n", pad, p.gutter.Sprint("="), p.hint.Sprint(n))
	}
}

// prefixRunes returns the first n code points of s.
func prefixRunes(s string, n uint32) string {
	var i uint32
	for off := range s {
		if i == n {
			return s[:off]
		}
		i++
	}
	return s
}

// spanText cuts the highlighted part out of a source line, stopping at its end.
func spanText(line string, col, width uint32) string {
	rest := line[len(prefixRunes(line, max(col, 1)-1)):]
	if uint32(len(rest)) > width {
		rest = rest[:width]
	}
	for !utf8.ValidString(rest) {
		rest = rest[:len(rest)-1]
	}
	return rest
}
