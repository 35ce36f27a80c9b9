package logforwarder

import (
	"context"

	"github.com/dolittle/lambda-log-forwarder/pkg/stream"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Forwarder holds only immutable configuration, so Forward is safe to call
// from concurrent deliveries.
type Forwarder struct {
	logContext logrus.FieldLogger
	streamName string
	repo       stream.Repo
}

func NewForwarder(logContext logrus.FieldLogger, streamName string, repo stream.Repo) (*Forwarder, error) {
	if streamName == "" {
		return nil, ErrMissingStreamName
	}
	if repo == nil {
		return nil, ErrMissingRepo
	}

	return &Forwarder{
		logContext: logContext.WithFields(logrus.Fields{
			"context":     "log-forwarder",
			"stream_name": streamName,
		}),
		streamName: streamName,
		repo:       repo,
	}, nil
}

func (f *Forwarder) StreamName() string {
	return f.streamName
}

// Ready never blocks. Flow control is left to the host and the stream.
func (f *Forwarder) Ready() bool {
	return true
}

// Forward converts the batch and submits it as a single bulk write.
// A batch with nothing left to write after filtering is not sent.
func (f *Forwarder) Forward(ctx context.Context, batch Batch) error {
	records := make([]stream.Record, 0, len(batch))
	var malformed *multierror.Error
	skipped := 0

	for _, entry := range batch {
		record, ok, err := ConvertEntry(entry)
		if err != nil {
			malformed = multierror.Append(malformed, err)
			continue
		}
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if skipped > 0 {
		f.logContext.WithFields(logrus.Fields{
			"skipped": skipped,
			"entries": len(batch),
		}).Debug("skipped entries outside the function category")
	}

	if malformed.ErrorOrNil() != nil {
		f.logContext.WithFields(logrus.Fields{
			"error":     malformed.Error(),
			"malformed": malformed.Len(),
			"entries":   len(batch),
		}).Warn("dropped malformed log entries")
	}

	if len(records) == 0 {
		f.logContext.WithField("entries", len(batch)).Debug("nothing to write")
		return nil
	}

	err := f.repo.PutRecords(ctx, f.streamName, records)
	if err != nil {
		f.logContext.WithFields(logrus.Fields{
			"error":   err,
			"records": len(records),
		}).Error("writing batch to stream")
		return &WriteError{
			StreamName: f.streamName,
			Records:    len(records),
			Err:        err,
		}
	}

	f.logContext.WithField("records", len(records)).Debug("batch written")
	return nil
}
