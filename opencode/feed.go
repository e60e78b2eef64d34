package opencode

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/mend"
)

// maxFrameSize bounds a single SSE frame. Deltas can carry whole source
// files, so the default scanner limit is too small.
const maxFrameSize = 1 << 20

// feed implements [mend.Feed] by parsing SSE frames from the /event
// response body.
type feed struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	mu     sync.Mutex
	closed bool
}

// Interface compliance check.
var _ mend.Feed = (*feed)(nil)

func newFeed(body io.ReadCloser) *feed {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &feed{body: body, scanner: scanner}
}

// Next blocks until the server delivers the next recognized event, for
// any session. Returns io.EOF when the server ends the stream and
// mend.ErrFeedClosed once Close has been called.
func (f *feed) Next() (mend.Event, error) {
	for {
		data, err := f.readFrame()
		if err != nil {
			return nil, err
		}

		var evt sseEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			// Malformed frames are skipped, not fatal.
			continue
		}

		switch evt.Type {
		case eventTextDelta:
			return mend.TextEvent{
				SessionID: evt.Properties.SessionID,
				Text:      evt.Properties.Text,
			}, nil
		case eventSessionStatus:
			return mend.StatusEvent{
				SessionID: evt.Properties.SessionID,
				Status:    evt.Properties.Status,
			}, nil
		}
		// Unrecognized event types are skipped.
	}
}

// Close terminates the subscription and unblocks any pending Next,
// which then reports mend.ErrFeedClosed.
func (f *feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()
	return f.body.Close()
}

func (f *feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// readFrame reads lines until a complete SSE frame is assembled and
// returns its data payload.
func (f *feed) readFrame() (string, error) {
	var dataBuf strings.Builder

	for f.scanner.Scan() {
		line := f.scanner.Text()

		if line == "" {
			// Empty line signals end of frame.
			if dataBuf.Len() > 0 {
				return dataBuf.String(), nil
			}
			continue
		}

		if strings.HasPrefix(line, "data: ") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(line, "data: "))
		}
		// Ignore comments (lines starting with ':') and other fields.
	}

	if f.isClosed() {
		return "", mend.ErrFeedClosed
	}
	if err := f.scanner.Err(); err != nil {
		return "", fmt.Errorf("opencode: %w", err)
	}

	// Scanner exhausted without error = EOF.
	if dataBuf.Len() > 0 {
		return dataBuf.String(), nil
	}
	return "", io.EOF
}
