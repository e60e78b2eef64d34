package mend

// Outcome classifies how processing one file ended.
type Outcome int

const (
	OutcomeUnchanged    Outcome = iota // rewrite identical to the original, nothing written
	OutcomeWritten                     // rewrite persisted (and validated, if a build target was set)
	OutcomePreviewed                   // rewrite printed without touching the filesystem
	OutcomeErrorsRemain                // persisted, but diagnostics remained after the last attempt
	OutcomeFailed                      // transport, extraction or filesystem failure; see Report.Err
)

// String returns the outcome as a short human-readable phrase.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "no changes"
	case OutcomeWritten:
		return "written"
	case OutcomePreviewed:
		return "previewed"
	case OutcomeErrorsRemain:
		return "errors remain"
	case OutcomeFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Report is the result of processing one file. Attempts counts follow-up
// fix requests issued (0 when the first check was already clean); Remaining
// counts diagnostics still present after the last check.
type Report struct {
	Path      string
	Outcome   Outcome
	Attempts  int
	Remaining int
	Err       error
}
