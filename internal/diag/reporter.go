package diag

import "zapc/internal/source"

// Reporter is the minimal contract compiler phases use to emit diagnostics.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter writes every report into Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// Error is a shortcut for reporting a SevError diagnostic without notes.
func Error(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, nil)
	}
}
