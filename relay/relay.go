// Package relay forwards live text for a single session from an event
// feed to a sink while a generation request is in flight.
//
// The feed is process-wide: it interleaves events from every session the
// service is running. A Relay drains it on a goroutine and writes only
// the text fragments belonging to its session, so concurrent sessions
// never bleed into each other's output.
package relay

import (
	"io"
	"time"

	"github.com/fwojciec/mend"
)

// DefaultGrace is how long Wait allows the feed to deliver events that
// were still in flight when the request resolved.
const DefaultGrace = 500 * time.Millisecond

// Relay drains an event feed for one session.
type Relay struct {
	feed mend.Feed
	done chan struct{}
}

// Start begins draining feed, writing the text of events whose session
// matches sessionID to sink. A nil feed yields an inert Relay whose Wait
// returns immediately; callers that failed to subscribe pass nil and
// proceed without live output.
func Start(feed mend.Feed, sessionID string, sink io.Writer) *Relay {
	r := &Relay{feed: feed, done: make(chan struct{})}
	if feed == nil {
		close(r.done)
		return r
	}
	go r.drain(sessionID, sink)
	return r
}

func (r *Relay) drain(sessionID string, sink io.Writer) {
	defer close(r.done)
	for {
		ev, err := r.feed.Next()
		if err != nil {
			return
		}
		text, ok := ev.(mend.TextEvent)
		if !ok || text.SessionID != sessionID {
			continue
		}
		if _, err := sink.Write([]byte(text.Text)); err != nil {
			return
		}
	}
}

// Wait blocks until the feed is exhausted or grace elapses, whichever
// comes first, then closes the feed and waits for the drain goroutine to
// exit. Call it after the request resolves: the grace period lets events
// that raced the response flush through.
func (r *Relay) Wait(grace time.Duration) {
	select {
	case <-r.done:
	case <-time.After(grace):
	}
	if r.feed != nil {
		_ = r.feed.Close()
	}
	<-r.done
}
