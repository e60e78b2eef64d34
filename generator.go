package mend

import "context"

// Generator is the generation-service surface the repair flow consumes:
// open a conversational session, exchange prompts within it, and subscribe
// to the live event feed. Sessions are opaque ids scoping one file's
// requests to one conversational context; there is no teardown call.
type Generator interface {
	CreateSession(ctx context.Context) (string, error)
	Send(ctx context.Context, sessionID string, prompt Prompt) ([]Part, error)
	Events(ctx context.Context) (Feed, error)
}
