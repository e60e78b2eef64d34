package repair

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/fileset"
	"github.com/fwojciec/mend/msbuild"
)

// Pipeline processes a set of files against one instruction.
type Pipeline struct {
	gen    mend.Generator
	prompt string
	cfg    config
}

// New returns a Pipeline that sends prompt for every file.
func New(gen mend.Generator, prompt string, opts ...Option) *Pipeline {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline{gen: gen, prompt: prompt, cfg: cfg}
}

// Run processes paths in first-seen order after deduplication by
// absolute path. A failure while processing one file is captured in its
// report and never stops later files. The returned reports parallel the
// processed files.
func (p *Pipeline) Run(ctx context.Context, paths []string) ([]mend.Report, error) {
	files, err := dedup(paths)
	if err != nil {
		return nil, err
	}
	if p.cfg.onlyBroken {
		files, err = p.filterBroken(ctx, files)
		if err != nil {
			return nil, err
		}
	}

	reports := make([]mend.Report, 0, len(files))
	for i, path := range files {
		p.cfg.reporter.FileStart(path, i+1, len(files))
		report := p.processOne(ctx, path)
		p.cfg.reporter.Result(report)
		reports = append(reports, report)
	}
	p.cfg.reporter.Summary(reports)
	return reports, nil
}

func dedup(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("repair: resolve %s: %w", path, err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}
	if len(files) == 0 {
		return nil, mend.ErrNoFiles
	}
	return files, nil
}

// filterBroken builds the target once and keeps only the files it
// reports errors for.
func (p *Pipeline) filterBroken(ctx context.Context, files []string) ([]string, error) {
	if p.cfg.compiler == nil {
		return nil, fmt.Errorf("repair: only-broken requires a compiler")
	}
	out, err := p.cfg.compiler.Run(ctx, p.cfg.target)
	broken := make(map[string]struct{})
	for _, f := range msbuild.ErrorFiles(out) {
		broken[f] = struct{}{}
	}
	if err != nil && len(broken) == 0 {
		p.cfg.logger.Warn("build failed but no diagnostics matched",
			"target", p.cfg.target, "error", err)
	}

	var kept []string
	for _, f := range files {
		if _, ok := broken[f]; ok {
			kept = append(kept, f)
			continue
		}
		p.cfg.logger.Debug("skipping file with no build errors", "path", f)
	}
	return kept, nil
}

func (p *Pipeline) processOne(ctx context.Context, path string) mend.Report {
	report := mend.Report{Path: path}
	fail := func(err error) mend.Report {
		report.Outcome = mend.OutcomeFailed
		report.Err = err
		return report
	}

	original, err := fileset.Read(path)
	if err != nil {
		return fail(err)
	}

	sessionID, err := p.gen.CreateSession(ctx)
	if err != nil {
		return fail(fmt.Errorf("create session: %w", err))
	}
	p.cfg.logger.Debug("session created", "session", sessionID, "path", path)

	content, err := p.requestRewrite(ctx, sessionID, path, original)
	if err != nil {
		return fail(err)
	}

	if content == string(original) {
		report.Outcome = mend.OutcomeUnchanged
		return report
	}

	if p.cfg.preview {
		p.cfg.reporter.Preview(path, content)
		report.Outcome = mend.OutcomePreviewed
		return report
	}

	if err := fileset.Write(path, []byte(content)); err != nil {
		return fail(err)
	}
	report.Outcome = mend.OutcomeWritten

	if p.cfg.compiler == nil {
		return report
	}
	fixer := &Fixer{gen: p.gen, cfg: p.cfg}
	res, err := fixer.Fix(ctx, sessionID, path)
	report.Attempts = res.Attempts
	report.Remaining = res.Remaining
	if err != nil {
		return fail(err)
	}
	if res.Remaining > 0 {
		report.Outcome = mend.OutcomeErrorsRemain
	}
	return report
}

// requestRewrite sends the instruction with the file attached and
// returns the rewritten content.
func (p *Pipeline) requestRewrite(ctx context.Context, sessionID, path string, original []byte) (string, error) {
	prompt := mend.Prompt{
		Text: initialText(p.prompt, p.cfg.langs[0]),
		Files: []mend.FilePart{{
			Path: path,
			MIME: fileset.MIMEType(path),
			Text: string(original),
		}},
	}
	parts, err := exchange(ctx, p.gen, &p.cfg, sessionID, prompt)
	if err != nil {
		return "", err
	}
	return extractContent(parts, p.cfg.langs)
}

func initialText(instruction, lang string) string {
	return fmt.Sprintf(
		"%s\n\nReturn the entire rewritten file as a single fenced %s code block and nothing else.",
		instruction, lang,
	)
}
