package stream

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/stan.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type stanRepo struct {
	sc stan.Conn
}

func SetupStan(logContext logrus.FieldLogger, natsServer string, clusterID string, clientID string) (stan.Conn, error) {
	opts := []nats.Option{nats.Name("lambda-log-forwarder")}
	logContext = logContext.WithFields(logrus.Fields{
		"context":    "stan-repo",
		"cluster_id": clusterID,
		"client_id":  clientID,
	})

	logContext.Info("Connecting to NATS Server...")
	nc, err := nats.Connect(natsServer, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to nats server %s", natsServer)
	}

	logContext.Info("Connecting to NATS Streaming Server...")
	sc, err := stan.Connect(clusterID, clientID,
		stan.NatsConn(nc),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			logContext.WithField("error", reason).Error("Connection lost")
		}),
		stan.Pings(10, 5),
	)
	if err != nil {
		nc.Close()
		return nil, errors.Wrapf(err, "connecting to nats streaming server at %s", nc.Opts.Url)
	}

	return sc, nil
}

func NewStanRepo(sc stan.Conn) Repo {
	return &stanRepo{
		sc: sc,
	}
}

// PutRecords publishes every record on the subject named after the stream and
// waits until all of them are acknowledged. Acks arriving after ctx is done
// land in a buffered channel nobody reads, so the handlers never block.
func (r *stanRepo) PutRecords(ctx context.Context, streamName string, records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	acks := make(chan error, len(records))
	onAck := func(guid string, err error) {
		if err != nil {
			err = errors.Wrapf(err, "ack %s", guid)
		}
		acks <- err
	}

	var result *multierror.Error
	pending := 0
	for _, record := range records {
		if _, err := r.sc.PublishAsync(streamName, record.Data, onAck); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "publish"))
			continue
		}
		pending++
	}

	for ; pending > 0; pending-- {
		select {
		case err := <-acks:
			if err != nil {
				result = multierror.Append(result, err)
			}
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for acks")
		}
	}

	return result.ErrorOrNil()
}
