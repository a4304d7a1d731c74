package dialect

// Hint is a small piece of evidence suggesting a particular dialect.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
}

// Evidence aggregates per-file hints collected while sniffing content.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 8),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}
