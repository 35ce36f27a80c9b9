package extension

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dolittle/lambda-log-forwarder/pkg/config"
	"github.com/dolittle/lambda-log-forwarder/pkg/stream"
)

// newRepo builds the stream client once for the process. The returned func
// releases it.
func newRepo(logContext logrus.FieldLogger, cfg config.Config) (stream.Repo, func(), error) {
	switch cfg.Backend {
	case config.BackendKinesis:
		client, err := stream.NewKinesisClient(cfg.AWSRegion, cfg.KinesisEndpoint)
		if err != nil {
			return nil, nil, err
		}
		repo := stream.NewKinesisRepo(logContext.WithField("context", "kinesis-repo"), client, cfg.FailOnPartial)
		return repo, func() {}, nil

	case config.BackendStan:
		clientID := cfg.Stan.ClientID
		if clientID == "" {
			clientID = "log-forwarder-" + uuid.New().String()
		}
		sc, err := stream.SetupStan(logContext, cfg.Stan.NatsServer, cfg.Stan.ClusterID, clientID)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := sc.Close(); err != nil {
				logContext.WithField("error", err).Warn("closing stan connection")
			}
			sc.NatsConn().Close()
		}
		return stream.NewStanRepo(sc), closer, nil

	case config.BackendStdout:
		return stream.NewStdoutRepo(os.Stdout), func() {}, nil
	}

	return nil, nil, errors.Wrapf(config.ErrUnknownBackend, "%q", cfg.Backend)
}
