// Package gemini implements [mend.Generator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK's chat API so that follow-up
// requests within a session share conversation history. Gemini exposes no
// process-wide event endpoint, so the client synthesizes one: chunks seen
// while streaming a reply are fanned out to every feed handed out by
// Events, giving callers the same live-output path the OpenCode backend
// provides.
package gemini

const (
	defaultModel     = "gemini-3.1-pro-preview"
	defaultMaxTokens = 65536

	// eventBuffer bounds how far a feed may lag behind generation
	// before chunks are dropped.
	eventBuffer = 64
)
