package logforwarder

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingStreamName = errors.New("stream name is not configured")
	ErrMissingRepo       = errors.New("stream repo is not configured")
	ErrMalformedEntry    = errors.New("malformed log entry")
)

// WriteError is returned by Forward when the stream rejected the bulk write.
// The whole batch is considered failed.
type WriteError struct {
	StreamName string
	Records    int
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %d records to stream %s: %v", e.Records, e.StreamName, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors.Cause reach the store error.
func (e *WriteError) Cause() error {
	return e.Err
}
