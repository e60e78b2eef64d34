package mock

import "github.com/fwojciec/mend"

// Feed is a test double for mend.Feed.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// because test code commonly calls defer feed.Close() without needing
// custom behavior.
type Feed struct {
	NextFn  func() (mend.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (f *Feed) Next() (mend.Event, error) {
	return f.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (f *Feed) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
