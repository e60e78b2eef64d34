package mend

// Diagnostic is one compiler-reported error tied to a file. File is the
// absolute, cleaned path the compiler reported against; Line is the
// verbatim output line, preserved so follow-up prompts can quote the
// compiler exactly. Diagnostics are derived per build invocation and never
// persisted.
type Diagnostic struct {
	File string
	Line string
}

// DiagnosticLines returns the verbatim lines of diags, one per element.
func DiagnosticLines(diags []Diagnostic) []string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Line
	}
	return lines
}
