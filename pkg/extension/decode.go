package extension

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/dolittle/lambda-log-forwarder/pkg/logforwarder"
)

// DecodeBatch reads a Logs API delivery. A function record that is not a JSON
// string is kept as an entry carrying the error so the forwarder can skip it.
func DecodeBatch(body []byte) (logforwarder.Batch, error) {
	var messages []LogMessage
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, errors.Wrap(err, "decoding log batch")
	}

	batch := make(logforwarder.Batch, 0, len(messages))
	for _, message := range messages {
		batch = append(batch, toEntry(message))
	}
	return batch, nil
}

func toEntry(message LogMessage) logforwarder.LogEntry {
	entry := logforwarder.LogEntry{
		Category: logforwarder.CategoryOther,
		Type:     message.Type,
		Time:     message.Time,
	}

	if message.Type != LogTypeFunction {
		entry.Payload = []byte(message.Record)
		return entry
	}

	entry.Category = logforwarder.CategoryFunction
	var record string
	if err := json.Unmarshal(message.Record, &record); err != nil {
		entry.Err = errors.Wrap(err, "function record is not a string")
		return entry
	}
	entry.Payload = []byte(record)
	return entry
}
