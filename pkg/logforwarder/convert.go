package logforwarder

import (
	"github.com/dolittle/lambda-log-forwarder/pkg/stream"
	"github.com/pkg/errors"
)

// ConvertEntry maps one log entry to at most one stream record.
// Entries outside the function category are skipped with ok == false.
func ConvertEntry(entry LogEntry) (record stream.Record, ok bool, err error) {
	switch entry.Category {
	case CategoryFunction:
		if entry.Err != nil {
			return stream.Record{}, false, errors.Wrapf(ErrMalformedEntry, "%s entry at %s: %v", entry.Type, entry.Time, entry.Err)
		}
		data := make([]byte, len(entry.Payload))
		copy(data, entry.Payload)
		return stream.Record{Data: data}, true, nil
	case CategoryOther:
		return stream.Record{}, false, nil
	default:
		return stream.Record{}, false, errors.Wrapf(ErrMalformedEntry, "unknown category %d", entry.Category)
	}
}
