package extension

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	shutdownGrace = 2 * time.Second
	// shutdownMargin is kept before the SHUTDOWN deadline to finish in-flight deliveries.
	shutdownMargin = 200 * time.Millisecond
)

type Options struct {
	Name          string
	ListenAddress string
	Port          int
	Buffering     BufferingConfig
}

func (o Options) listenAddress() string {
	if o.ListenAddress != "" {
		return o.ListenAddress
	}
	return fmt.Sprintf("%s:%d", SandboxHostname, o.port())
}

func (o Options) port() int {
	if o.Port == 0 {
		return DefaultListenerPort
	}
	return o.Port
}

// SubscribeRequest asks for function logs only, delivered to the listener.
func (o Options) SubscribeRequest() SubscribeRequest {
	return SubscribeRequest{
		SchemaVersion: logsSchemaVersion,
		Types:         []string{LogTypeFunction},
		Buffering:     o.Buffering,
		Destination: Destination{
			Protocol: "HTTP",
			URI:      fmt.Sprintf("http://%s:%d", SandboxHostname, o.port()),
		},
	}
}

// Run registers the extension, starts receiving logs and blocks until the
// runtime sends SHUTDOWN or ctx is done.
func Run(ctx context.Context, logContext logrus.FieldLogger, client *Client, forwarder Forwarder, opts Options) error {
	logContext = logContext.WithField("context", "extension")

	if _, err := client.Register(ctx, opts.Name); err != nil {
		return err
	}

	listener := NewListener(logContext, forwarder, opts.listenAddress())
	if err := listener.Start(); err != nil {
		err = errors.Wrap(err, "starting logs listener")
		reportInitError(ctx, logContext, client, "Extension.ListenerError", err)
		return err
	}

	if err := client.SubscribeLogs(ctx, opts.SubscribeRequest()); err != nil {
		reportInitError(ctx, logContext, client, "Extension.SubscribeError", err)
		stopListener(logContext, listener, time.Now().Add(shutdownGrace))
		return err
	}

	for {
		event, err := client.NextEvent(ctx)
		if err != nil {
			stopListener(logContext, listener, time.Now().Add(shutdownGrace))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if reportErr := client.ExitError(context.Background(), "Extension.EventError", err); reportErr != nil {
				logContext.WithField("error", reportErr).Error("reporting exit error")
			}
			return err
		}

		switch event.EventType {
		case Invoke:
			logContext.WithField("request_id", event.RequestID).Debug("invoke")
		case Shutdown:
			logContext.WithField("reason", event.ShutdownReason).Info("shutting down")
			deadline := time.Now().Add(shutdownGrace)
			if event.DeadlineMs > 0 {
				deadline = time.Unix(0, event.DeadlineMs*int64(time.Millisecond))
			}
			// the host flushes the last buffered logs after SHUTDOWN
			drainUntil(ctx, deadline.Add(-shutdownMargin))
			stopListener(logContext, listener, deadline)
			return nil
		default:
			logContext.WithField("event_type", event.EventType).Warn("unknown event")
		}
	}
}

func drainUntil(ctx context.Context, until time.Time) {
	wait := time.Until(until)
	if wait <= 0 {
		return
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func reportInitError(ctx context.Context, logContext logrus.FieldLogger, client *Client, errorType string, cause error) {
	if err := client.InitError(ctx, errorType, cause); err != nil {
		logContext.WithField("error", err).Error("reporting init error")
	}
}

func stopListener(logContext logrus.FieldLogger, listener *Listener, deadline time.Time) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()
	if err := listener.Shutdown(ctx); err != nil {
		logContext.WithField("error", err).Warn("stopping logs listener")
	}
}
