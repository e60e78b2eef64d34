// Package mock provides test doubles for mend interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/mend"
)

// Interface compliance checks.
var (
	_ mend.Generator = (*Generator)(nil)
	_ mend.Feed      = (*Feed)(nil)
	_ mend.Compiler  = (*Compiler)(nil)
)

// Generator is a test double for mend.Generator.
// CreateSessionFn and SendFn panic when nil to catch missing setup.
// EventsFn is nil-safe and reports a failed subscription, which callers
// treat as running without a live feed.
type Generator struct {
	CreateSessionFn func(ctx context.Context) (string, error)
	SendFn          func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error)
	EventsFn        func(ctx context.Context) (mend.Feed, error)
}

// CreateSession delegates to CreateSessionFn.
func (g *Generator) CreateSession(ctx context.Context) (string, error) {
	return g.CreateSessionFn(ctx)
}

// Send delegates to SendFn.
func (g *Generator) Send(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
	return g.SendFn(ctx, sessionID, prompt)
}

// Events delegates to EventsFn. Returns mend.ErrFeedClosed when EventsFn
// is not set.
func (g *Generator) Events(ctx context.Context) (mend.Feed, error) {
	if g.EventsFn == nil {
		return nil, mend.ErrFeedClosed
	}
	return g.EventsFn(ctx)
}
