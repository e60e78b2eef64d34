package repair

import (
	"context"
	"strings"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/codeblock"
	"github.com/fwojciec/mend/relay"
)

// exchange sends prompt within the session and returns the reply parts,
// relaying the session's live text to the reporter's sink while the
// request is in flight. A failed feed subscription is not an error: the
// request still runs, there is just nothing to show until it resolves.
func exchange(ctx context.Context, gen mend.Generator, cfg *config, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
	feed, err := gen.Events(ctx)
	if err != nil {
		cfg.logger.Debug("event feed unavailable", "error", err)
		feed = nil
	}

	rel := relay.Start(feed, sessionID, cfg.reporter.Stream())
	parts, sendErr := gen.Send(ctx, sessionID, prompt)
	rel.Wait(cfg.grace)
	cfg.reporter.StreamEnd()

	if sendErr != nil {
		return nil, sendErr
	}
	if len(parts) == 0 {
		return nil, mend.ErrEmptyResponse
	}
	return parts, nil
}

// extractContent pulls the rewritten file out of reply parts. A reply
// that carries no usable text is reported as empty rather than written
// out as a blank file.
func extractContent(parts []mend.Part, langs []string) (string, error) {
	content := codeblock.Extract(parts, langs...)
	if strings.TrimSpace(content) == "" {
		return "", mend.ErrEmptyResponse
	}
	return content, nil
}
