// Package opencode implements [mend.Generator] for an OpenCode server.
//
// The server exposes session creation and prompting as plain JSON
// endpoints plus a process-wide SSE feed at /event that interleaves
// live updates for every session it is running. The feed is surfaced
// through the pull-based [mend.Feed] interface; filtering to one
// session is the caller's job.
package opencode

const (
	defaultBaseURL = "http://127.0.0.1:4096"
	sessionPath    = "/session"
	eventPath      = "/event"

	eventTextDelta     = "message.part.delta"
	eventSessionStatus = "session.status"
)

// sessionResponse is returned by POST /session.
type sessionResponse struct {
	ID string `json:"id"`
}

// messageRequest is the JSON body sent to POST /session/{id}/message.
type messageRequest struct {
	MessageID  string        `json:"messageID"`
	ProviderID string        `json:"providerID,omitempty"`
	ModelID    string        `json:"modelID,omitempty"`
	Parts      []messagePart `json:"parts"`
}

// messageResponse is the reply body: the ordered parts of the
// generation.
type messageResponse struct {
	Parts []messagePart `json:"parts"`
}

// messagePart is one content part in a request or reply.
// Different fields are populated depending on Type.
type messagePart struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// file
	Path    string `json:"path,omitempty"`
	MIME    string `json:"mime,omitempty"`
	Content string `json:"content,omitempty"`
}

// sseEvent is one frame on the /event feed. Properties carries the
// fields shared by the session-scoped event types.
type sseEvent struct {
	Type       string        `json:"type"`
	Properties sseProperties `json:"properties"`
}

type sseProperties struct {
	SessionID string `json:"sessionID"`
	Text      string `json:"text,omitempty"`
	Status    string `json:"status,omitempty"`
}

// apiErrorResponse is the JSON body returned on non-200 HTTP responses.
type apiErrorResponse struct {
	Error string `json:"error"`
}
