package mend

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrEmptyResponse indicates the service returned no usable content.
	// Treated like a transport failure: the file is left untouched.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoFiles indicates the input patterns resolved to zero files.
	ErrNoFiles = errors.New("no input files")

	// ErrFeedClosed indicates an operation on a closed event feed.
	ErrFeedClosed = errors.New("event feed closed")

	// ErrUnknownSession indicates a send against a session id the
	// generator did not create.
	ErrUnknownSession = errors.New("unknown session")
)
