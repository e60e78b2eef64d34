// Package msbuild runs a build command against a source file and extracts
// compiler error diagnostics from its output.
//
// Diagnostics are recognized in the two position notations the
// MSBuild-family compilers emit:
//
//	Program.cs(12,5): error CS0103: The name 'x' does not exist
//	Program.cs[12,5]: error CS0103: The name 'x' does not exist
//
// Warnings and lines that do not carry an error code are ignored.
package msbuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/fwojciec/mend"
)

// DefaultCommand is the build command used when none is configured. The
// target path is appended as the final argument.
var DefaultCommand = []string{"dotnet", "build"}

// Runner executes a build command and captures its interleaved
// stdout+stderr so diagnostics can be scanned from either stream.
type Runner struct {
	command []string
	logger  *slog.Logger
}

var _ mend.Compiler = (*Runner)(nil)

// Option configures a Runner.
type Option func(*Runner)

// WithCommand overrides the build command.
func WithCommand(argv ...string) Option {
	return func(r *Runner) {
		if len(argv) > 0 {
			r.command = argv
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner returns a Runner that executes DefaultCommand.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		command: DefaultCommand,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the build command with target appended and returns its
// combined output. The output is returned even when the command fails,
// including when it could not be launched at all, so callers can scan
// whatever was captured.
func (r *Runner) Run(ctx context.Context, target string) (string, error) {
	argv := make([]string, 0, len(r.command)+1)
	argv = append(argv, r.command...)
	argv = append(argv, target)

	r.logger.Debug("running build", "command", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("msbuild: %s: %w", argv[0], err)
	}
	return string(out), nil
}
