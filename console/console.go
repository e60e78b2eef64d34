// Package console renders repair progress to a terminal using lipgloss
// for styling. Colors use ANSI indices (0-15) so output matches the
// user's terminal theme.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/mend"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the column at which diagnostic lines are truncated.
const DefaultWidth = 100

// Reporter writes human-readable progress for each file as it moves
// through the pipeline, including the model's streamed output.
type Reporter struct {
	out    io.Writer
	width  int
	header lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	stream streamWriter
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithNoColor disables ANSI styling.
func WithNoColor() Option {
	return func(r *Reporter) {
		plain := lipgloss.NewStyle()
		r.header = plain
		r.muted = plain
		r.ok = plain
		r.fail = plain
	}
}

// WithWidth sets the truncation column for diagnostic lines. Zero
// disables truncation.
func WithWidth(width int) Option {
	return func(r *Reporter) {
		r.width = width
	}
}

// NewReporter returns a Reporter writing to out.
func NewReporter(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:    out,
		width:  DefaultWidth,
		header: lipgloss.NewStyle().Foreground(ansi(5)).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(ansi(8)).Faint(true),
		ok:     lipgloss.NewStyle().Foreground(ansi(2)),
		fail:   lipgloss.NewStyle().Foreground(ansi(1)),
	}
	r.stream.out = out
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func ansi(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// FileStart announces the file about to be processed.
func (r *Reporter) FileStart(path string, index, total int) {
	fmt.Fprintf(r.out, "%s\n", r.header.Render(fmt.Sprintf("[%d/%d] %s", index, total, path)))
}

// Stream returns the sink for the model's live output. Writes go
// straight through to the terminal.
func (r *Reporter) Stream() io.Writer {
	return &r.stream
}

// StreamEnd finishes the live output block, adding a newline when the
// stream stopped mid-line.
func (r *Reporter) StreamEnd() {
	if r.stream.wrote && r.stream.last != '\n' {
		fmt.Fprintln(r.out)
	}
	r.stream.wrote = false
}

// Attempt announces a fix attempt.
func (r *Reporter) Attempt(attempt, max int) {
	fmt.Fprintf(r.out, "%s\n", r.muted.Render(fmt.Sprintf("fix attempt %d/%d", attempt, max)))
}

// Diagnostics lists the compiler errors driving the current attempt,
// truncated to the configured width.
func (r *Reporter) Diagnostics(lines []string) {
	for _, line := range lines {
		if r.width > 0 {
			line = runewidth.Truncate(line, r.width, "…")
		}
		fmt.Fprintf(r.out, "%s\n", r.fail.Render(line))
	}
}

// Preview prints the content that would have been written. The content
// itself is unstyled so it can be piped or copied.
func (r *Reporter) Preview(path, content string) {
	fmt.Fprintf(r.out, "%s\n", r.muted.Render("--- preview: "+path+" ---"))
	fmt.Fprint(r.out, content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(r.out)
	}
	fmt.Fprintf(r.out, "%s\n", r.muted.Render("--- end preview ---"))
}

// Result reports how a file ended up.
func (r *Reporter) Result(report mend.Report) {
	switch report.Outcome {
	case mend.OutcomeWritten, mend.OutcomePreviewed:
		line := "✓ " + report.Outcome.String()
		if report.Attempts > 0 {
			line += fmt.Sprintf(" after %s", plural(report.Attempts, "fix attempt"))
		}
		fmt.Fprintf(r.out, "%s\n", r.ok.Render(line))
	case mend.OutcomeUnchanged:
		fmt.Fprintf(r.out, "%s\n", r.muted.Render("• "+report.Outcome.String()))
	case mend.OutcomeErrorsRemain:
		line := fmt.Sprintf("✗ %s (%s)", report.Outcome, plural(report.Remaining, "error"))
		fmt.Fprintf(r.out, "%s\n", r.fail.Render(line))
	case mend.OutcomeFailed:
		fmt.Fprintf(r.out, "%s\n", r.fail.Render(fmt.Sprintf("✗ %s", report.Err)))
	}
}

// Summary prints outcome counts for the whole run.
func (r *Reporter) Summary(reports []mend.Report) {
	if len(reports) == 0 {
		return
	}
	counts := make(map[mend.Outcome]int)
	for _, rep := range reports {
		counts[rep.Outcome]++
	}
	parts := make([]string, 0, len(counts))
	for _, o := range []mend.Outcome{
		mend.OutcomeWritten,
		mend.OutcomePreviewed,
		mend.OutcomeUnchanged,
		mend.OutcomeErrorsRemain,
		mend.OutcomeFailed,
	} {
		if n := counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	line := fmt.Sprintf("%s: %s", plural(len(reports), "file"), strings.Join(parts, ", "))
	fmt.Fprintf(r.out, "%s\n", r.header.Render(line))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type streamWriter struct {
	out   io.Writer
	wrote bool
	last  byte
}

func (w *streamWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w.wrote = true
		w.last = p[len(p)-1]
	}
	return w.out.Write(p)
}
