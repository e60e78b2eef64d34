// Package repair drives the rewrite-compile-fix loop over a set of
// source files.
//
// A Pipeline owns the outer loop: one session per file, an initial
// rewrite request, then an optional Fixer pass when a build target is
// configured. A Fixer owns the bounded retry loop for a single file,
// feeding compiler diagnostics back into the same session until the
// build is clean or the attempt budget runs out. Files are processed
// one at a time; the only concurrency is the live event relay that runs
// alongside each request.
package repair

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/codeblock"
	"github.com/fwojciec/mend/relay"
)

// DefaultAttempts bounds follow-up fix requests per file.
const DefaultAttempts = 3

// DefaultLang selects which fenced code blocks are accepted in replies.
const DefaultLang = "csharp"

// Reporter receives progress callbacks as files move through the
// pipeline. Implementations render them for humans; the default
// reporter discards everything.
type Reporter interface {
	// FileStart announces the file about to be processed.
	FileStart(path string, index, total int)
	// Stream is the sink for the model's live output during a request.
	Stream() io.Writer
	// StreamEnd marks the end of one request's live output.
	StreamEnd()
	// Attempt announces a follow-up fix request.
	Attempt(attempt, max int)
	// Diagnostics lists the compiler errors driving the current attempt.
	Diagnostics(lines []string)
	// Preview shows the content that would have been written.
	Preview(path, content string)
	// Result reports how a file ended up.
	Result(report mend.Report)
	// Summary reports outcome totals after the last file.
	Summary(reports []mend.Report)
}

type nopReporter struct{}

func (nopReporter) FileStart(string, int, int) {}
func (nopReporter) Stream() io.Writer          { return io.Discard }
func (nopReporter) StreamEnd()                 {}
func (nopReporter) Attempt(int, int)           {}
func (nopReporter) Diagnostics([]string)       {}
func (nopReporter) Preview(string, string)     {}
func (nopReporter) Result(mend.Report)         {}
func (nopReporter) Summary([]mend.Report)      {}

type config struct {
	compiler   mend.Compiler
	target     string
	attempts   int
	langs      []string
	grace      time.Duration
	preview    bool
	onlyBroken bool
	reporter   Reporter
	logger     *slog.Logger
}

func defaultConfig() config {
	return config{
		attempts: DefaultAttempts,
		langs:    codeblock.Aliases(DefaultLang),
		grace:    relay.DefaultGrace,
		reporter: nopReporter{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Pipeline or a Fixer.
type Option func(*config)

// WithCompiler enables compile validation. After a rewrite is written,
// target is built and any diagnostics for the file drive follow-up fix
// requests. The target is whatever the build command accepts, typically
// a project or solution path.
func WithCompiler(compiler mend.Compiler, target string) Option {
	return func(cfg *config) {
		cfg.compiler = compiler
		cfg.target = target
	}
}

// WithAttempts bounds follow-up fix requests per file. Values below 1
// are ignored.
func WithAttempts(n int) Option {
	return func(cfg *config) {
		if n >= 1 {
			cfg.attempts = n
		}
	}
}

// WithLang sets the source language whose fenced blocks are extracted
// from replies.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang != "" {
			cfg.langs = codeblock.Aliases(lang)
		}
	}
}

// WithGrace sets how long the relay waits for in-flight events after a
// request resolves.
func WithGrace(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.grace = d
		}
	}
}

// WithPreview prints would-be content instead of writing files.
// Previewed files are never compile-checked.
func WithPreview() Option {
	return func(cfg *config) {
		cfg.preview = true
	}
}

// WithOnlyBroken restricts the run to files the current build reports
// errors for. Requires WithCompiler.
func WithOnlyBroken() Option {
	return func(cfg *config) {
		cfg.onlyBroken = true
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(cfg *config) {
		if r != nil {
			cfg.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
