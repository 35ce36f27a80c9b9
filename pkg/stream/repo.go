package stream

import "context"

// Record is the unit written to a stream. No partition key is chosen by the
// caller; backends that need one assign it themselves.
type Record struct {
	Data []byte
}

// Repo submits an ordered batch of records to a named stream in one write.
type Repo interface {
	PutRecords(ctx context.Context, streamName string, records []Record) error
}
