package mend

// Event is a sealed interface representing one entry on the live event feed.
// The feed is process-wide, not session-scoped, so every event names the
// session it belongs to; consumers filter on Session(). Transport errors
// come from Feed.Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
	Session() string
}

// TextEvent is an incremental fragment of a reply being generated.
type TextEvent struct {
	SessionID string
	Text      string
}

func (TextEvent) event() {}

// Session returns the id of the session the fragment belongs to.
func (e TextEvent) Session() string { return e.SessionID }

// StatusEvent reports a session lifecycle change (busy, idle). It carries no
// content and is ignored by live-output consumers.
type StatusEvent struct {
	SessionID string
	Status    string
}

func (StatusEvent) event() {}

// Session returns the id of the session the status refers to.
func (e StatusEvent) Session() string { return e.SessionID }

// Interface compliance checks.
var (
	_ Event = TextEvent{}
	_ Event = StatusEvent{}
)
