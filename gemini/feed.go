package gemini

import (
	"sync"

	"github.com/fwojciec/mend"
)

// Interface compliance check.
var _ mend.Feed = (*feed)(nil)

// feed delivers chunks published by the client that handed it out.
type feed struct {
	client *Client
	ch     chan mend.Event

	mu     sync.Mutex
	closed bool
}

// Next blocks until a chunk is published or the feed is closed. Chunks
// buffered before Close are still delivered.
func (f *feed) Next() (mend.Event, error) {
	ev, ok := <-f.ch
	if !ok {
		return nil, mend.ErrFeedClosed
	}
	return ev, nil
}

// Close unsubscribes the feed and unblocks any pending Next.
func (f *feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	// Unsubscribe before closing: publish only sends to subscribed feeds.
	f.client.unsubscribe(f)
	close(f.ch)
	return nil
}
