package diag

// Reporter: минимальный контракт получения диагностик от фаз.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// ReportError forwards err to r when it carries a *Error,
// otherwise wraps it as an UnknownCode diagnostic for path.
func ReportError(r Reporter, path string, err error) {
	if r == nil || err == nil {
		return
	}
	if de, ok := AsError(err); ok {
		r.Report(de.Diagnostic())
		return
	}
	r.Report(Diagnostic{Severity: SevError, Code: UnknownCode, Message: err.Error(), Path: path})
}
