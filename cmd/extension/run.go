package extension

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dolittle/lambda-log-forwarder/pkg/config"
	lambdaExtension "github.com/dolittle/lambda-log-forwarder/pkg/extension"
	"github.com/dolittle/lambda-log-forwarder/pkg/logforwarder"
)

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run as a Lambda extension",
	Long: `
	Registers with the Lambda Extensions API, subscribes to function logs and
	writes every delivered batch to the stream.

	KDS_NAME=my-stream \
	AWS_LAMBDA_RUNTIME_API=127.0.0.1:9001 \
	log-forwarder run
	`,
	Run: func(cmd *cobra.Command, args []string) {
		logContext := setupLogging()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := run(ctx, logContext); err != nil {
			logContext.WithField("error", err).Error("log forwarder stopped")
			os.Exit(1)
		}
	},
}

func run(ctx context.Context, logContext *logrus.Logger) error {
	cfg, err := config.LoadExtension(viper.GetViper())
	if err != nil {
		return failInit(ctx, logContext, cfg, "Extension.ConfigError", err)
	}

	logContext.WithFields(logrus.Fields{
		"stream_name":    cfg.StreamName,
		"stream_backend": cfg.Backend,
		"extension_name": cfg.ExtensionName,
		"buffering":      cfg.Buffering,
	}).Info("start up")

	repo, closeRepo, err := newRepo(logContext, cfg)
	if err != nil {
		return failInit(ctx, logContext, cfg, "Extension.StreamError", err)
	}
	defer closeRepo()

	forwarder, err := logforwarder.NewForwarder(logContext, cfg.StreamName, repo)
	if err != nil {
		return failInit(ctx, logContext, cfg, "Extension.ConfigError", err)
	}

	client := lambdaExtension.NewClient(logContext.WithField("context", "extension-client"), cfg.RuntimeAPI, nil)
	return lambdaExtension.Run(ctx, logContext, client, forwarder, lambdaExtension.Options{
		Name: cfg.ExtensionName,
		Port: cfg.ListenerPort,
		Buffering: lambdaExtension.BufferingConfig{
			MaxItems:  cfg.Buffering.MaxItems,
			MaxBytes:  cfg.Buffering.MaxBytes,
			TimeoutMs: cfg.Buffering.TimeoutMs,
		},
	})
}

// failInit tells the runtime the extension could not start, when there is a
// runtime to tell, and returns cause.
func failInit(ctx context.Context, logContext logrus.FieldLogger, cfg config.Config, errorType string, cause error) error {
	if cfg.RuntimeAPI == "" || cfg.ExtensionName == "" {
		return cause
	}

	client := lambdaExtension.NewClient(logContext.WithField("context", "extension-client"), cfg.RuntimeAPI, nil)
	if _, err := client.Register(ctx, cfg.ExtensionName); err != nil {
		logContext.WithField("error", err).Error("registering to report init error")
		return cause
	}
	if err := client.InitError(ctx, errorType, cause); err != nil {
		logContext.WithField("error", err).Error("reporting init error")
	}
	return cause
}
