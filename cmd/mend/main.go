// Command mend repairs source files by sending them through a
// code-generation service and re-checking them with the build tool.
//
// Usage:
//
//	mend -p "Add null checks to public methods." "src/**/*.cs"
//	mend --prompt-file fix.md --build App.csproj Program.cs
//
// The OpenCode backend is the default and needs a running server
// (MEND_SERVER, default http://127.0.0.1:4096). The Gemini backend is
// selected with --provider gemini and needs GEMINI_API_KEY.
//
// Exit codes: 0 when every file was repaired or unchanged, 1 when any
// file failed or still has build errors, 2 on fatal errors.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/console"
	"github.com/fwojciec/mend/fileset"
	"github.com/fwojciec/mend/msbuild"
	"github.com/fwojciec/mend/repair"
)

const version = "0.1.0"

type cli struct {
	Paths []string `arg:"" name:"path" help:"Files or glob patterns to repair (** matches recursively)."`

	Prompt       string           `short:"p" help:"Instruction sent with every file." xor:"instruction"`
	PromptFile   string           `help:"File containing the instruction." xor:"instruction" type:"path"`
	Server       string           `help:"OpenCode server URL." default:"http://127.0.0.1:4096" env:"MEND_SERVER"`
	Provider     string           `help:"Generation backend: opencode or gemini." env:"MEND_PROVIDER"`
	Model        string           `help:"Model ID; provider/model selects the upstream provider on OpenCode." env:"MEND_MODEL"`
	Build        string           `help:"Project or solution to compile; enables fix attempts." type:"path"`
	BuildCommand string           `help:"Compiler command." default:"dotnet build"`
	Attempts     int              `help:"Maximum fix attempts per file." default:"3"`
	Lang         string           `help:"Fence language expected on returned code blocks." default:"csharp"`
	DryRun       bool             `help:"Preview rewrites without writing files."`
	OnlyBroken   bool             `help:"Skip files that already build cleanly."`
	NoColor      bool             `help:"Disable colored output."`
	Debug        bool             `short:"d" help:"Enable debug logging."`
	Version      kong.VersionFlag `help:"Show version information."`
}

func main() {
	os.Exit(run())
}

func run() int {
	var c cli
	kong.Parse(&c,
		kong.Name("mend"),
		kong.Description("Repair source files with a code-generation service."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(c.Debug)

	instruction, err := c.instruction()
	if err != nil {
		return fatal(err)
	}

	paths, err := fileset.Resolve(c.Paths)
	if err != nil {
		return fatal(err)
	}

	// Env vars are read here and passed as values.
	gen, err := resolveGenerator(ctx, &c, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return fatal(err)
	}

	reporter := console.NewReporter(os.Stdout, consoleOptions(&c)...)
	pipeline := repair.New(gen, instruction, pipelineOptions(&c, reporter, logger)...)

	reports, err := pipeline.Run(ctx, paths)
	if err != nil {
		return fatal(err)
	}
	return exitCode(reports)
}

func fatal(err error) int {
	fmt.Fprintf(os.Stderr, "mend: %v\n", err)
	return 2
}

// instruction returns the repair instruction from --prompt or --prompt-file.
// Kong rejects setting both; neither is a fatal error.
func (c *cli) instruction() (string, error) {
	switch {
	case c.Prompt != "":
		return c.Prompt, nil
	case c.PromptFile != "":
		data, err := os.ReadFile(c.PromptFile)
		if err != nil {
			return "", fmt.Errorf("read instruction: %w", err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("instruction file %s is empty", c.PromptFile)
		}
		return text, nil
	default:
		return "", fmt.Errorf("an instruction is required: use --prompt or --prompt-file")
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func consoleOptions(c *cli) []console.Option {
	var opts []console.Option
	if c.NoColor {
		opts = append(opts, console.WithNoColor())
	}
	return opts
}

func pipelineOptions(c *cli, reporter *console.Reporter, logger *slog.Logger) []repair.Option {
	opts := []repair.Option{
		repair.WithReporter(reporter),
		repair.WithLogger(logger),
		repair.WithAttempts(c.Attempts),
		repair.WithLang(c.Lang),
	}
	if c.Build != "" {
		compiler := msbuild.NewRunner(
			msbuild.WithCommand(strings.Fields(c.BuildCommand)...),
			msbuild.WithLogger(logger),
		)
		opts = append(opts, repair.WithCompiler(compiler, c.Build))
	}
	if c.DryRun {
		opts = append(opts, repair.WithPreview())
	}
	if c.OnlyBroken {
		opts = append(opts, repair.WithOnlyBroken())
	}
	return opts
}

func exitCode(reports []mend.Report) int {
	for _, r := range reports {
		if r.Outcome == mend.OutcomeFailed || r.Outcome == mend.OutcomeErrorsRemain {
			return 1
		}
	}
	return 0
}
