package mend

// Feed is a pull-based iterator over the live event feed.
//
// Next() blocks until an event arrives and returns io.EOF once the service
// closes the feed. Close() releases the subscription and must unblock a
// pending Next(), which then returns a non-nil error; this is what lets a
// consumer abandon a slow feed without leaking its reader.
type Feed interface {
	Next() (Event, error)
	Close() error
}
