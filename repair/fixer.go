package repair

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/fileset"
	"github.com/fwojciec/mend/msbuild"
)

// Fixer runs the bounded fix loop for one file: build, collect the
// file's error diagnostics, and while any remain, send them back as a
// follow-up in the same session, write the reply, and build again.
type Fixer struct {
	gen mend.Generator
	cfg config
}

// NewFixer returns a Fixer. WithCompiler is required; Fix fails
// without it.
func NewFixer(gen mend.Generator, opts ...Option) *Fixer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Fixer{gen: gen, cfg: cfg}
}

// Result describes how a fix loop ended.
type Result struct {
	Attempts  int // follow-up requests sent
	Remaining int // diagnostics left after the last check
}

// Fix repairs path within sessionID. The first check runs before any
// request, so a file whose initial rewrite already builds clean sends
// nothing. Each attempt quotes the compiler's error lines verbatim,
// writes the corrected content before re-checking, and counts against
// the attempt budget whether or not it helps.
func (f *Fixer) Fix(ctx context.Context, sessionID, path string) (Result, error) {
	if f.cfg.compiler == nil {
		return Result{}, fmt.Errorf("repair: fix requires a compiler")
	}

	diags := f.check(ctx, path)
	for attempt := 1; attempt <= f.cfg.attempts; attempt++ {
		if len(diags) == 0 {
			return Result{Attempts: attempt - 1}, nil
		}
		f.cfg.reporter.Attempt(attempt, f.cfg.attempts)
		f.cfg.reporter.Diagnostics(mend.DiagnosticLines(diags))

		content, err := f.requestFix(ctx, sessionID, diags)
		if err != nil {
			return Result{Attempts: attempt - 1, Remaining: len(diags)}, err
		}
		if err := fileset.Write(path, []byte(content)); err != nil {
			return Result{Attempts: attempt, Remaining: len(diags)}, err
		}
		diags = f.check(ctx, path)
	}
	return Result{Attempts: f.cfg.attempts, Remaining: len(diags)}, nil
}

// check builds the configured target and returns the error diagnostics
// for path. Exit status is ignored: a failing build with parseable
// errors is the normal case, and a failing build with none is logged
// because it usually means the output format went unrecognized.
func (f *Fixer) check(ctx context.Context, path string) []mend.Diagnostic {
	out, err := f.cfg.compiler.Run(ctx, f.cfg.target)
	diags := msbuild.Errors(out, path)
	if err != nil && len(diags) == 0 {
		f.cfg.logger.Warn("build failed but no diagnostics matched",
			"target", f.cfg.target, "path", path, "error", err)
	}
	return diags
}

func (f *Fixer) requestFix(ctx context.Context, sessionID string, diags []mend.Diagnostic) (string, error) {
	parts, err := exchange(ctx, f.gen, &f.cfg, sessionID, followUp(diags, f.cfg.langs[0]))
	if err != nil {
		return "", err
	}
	return extractContent(parts, f.cfg.langs)
}

// followUp builds the fix prompt: the compiler's error lines, quoted
// verbatim, plus the directive to reply with only the corrected file.
func followUp(diags []mend.Diagnostic, lang string) mend.Prompt {
	var b strings.Builder
	b.WriteString("The file still fails to compile with the following errors:\n\n")
	for _, line := range mend.DiagnosticLines(diags) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nReturn the entire corrected file as a single fenced %s code block and nothing else.", lang)
	return mend.Prompt{Text: b.String()}
}
