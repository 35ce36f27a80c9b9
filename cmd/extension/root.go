package extension

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pkgCmd "github.com/dolittle/lambda-log-forwarder/pkg/cmd"
	"github.com/dolittle/lambda-log-forwarder/pkg/config"
	lambdaExtension "github.com/dolittle/lambda-log-forwarder/pkg/extension"
)

// SetupFlags binds every setting to a persistent flag, an env variable and a default.
func SetupFlags(root *cobra.Command) {
	pkgCmd.SetupStringConfiguration(root, config.KeyStreamName, "stream-name", "KDS_NAME", "", "Name of the stream to write function logs to")
	pkgCmd.SetupStringConfiguration(root, config.KeyStreamBackend, "stream-backend", "STREAM_BACKEND", config.BackendKinesis, "Stream backend: kinesis, stan or stdout")
	pkgCmd.SetupBoolConfiguration(root, config.KeyFailOnPartial, "fail-on-partial", "STREAM_FAIL_ON_PARTIAL", false, "Fail the batch when the stream rejects some of its records")

	pkgCmd.SetupStringConfiguration(root, config.KeyAWSRegion, "aws-region", "AWS_REGION", "", "AWS region of the stream")
	pkgCmd.SetupStringConfiguration(root, config.KeyKinesisEndpoint, "kinesis-endpoint", "KINESIS_ENDPOINT", "", "Override the Kinesis endpoint")

	pkgCmd.SetupStringConfiguration(root, config.KeyNatsServer, "nats-server", "NATS_SERVER", "", "NATS server for the stan backend")
	pkgCmd.SetupStringConfiguration(root, config.KeyStanClusterID, "stan-cluster-id", "STAN_CLUSTER_ID", "", "NATS Streaming cluster id")
	pkgCmd.SetupStringConfiguration(root, config.KeyStanClientID, "stan-client-id", "STAN_CLIENT_ID", "", "NATS Streaming client id, generated when empty")

	pkgCmd.SetupStringConfiguration(root, config.KeyExtensionName, "extension-name", "EXTENSION_NAME", filepath.Base(os.Args[0]), "Name registered with the Extensions API, must match the file name in /opt/extensions")
	pkgCmd.SetupStringConfiguration(root, config.KeyRuntimeAPI, "runtime-api", "AWS_LAMBDA_RUNTIME_API", "", "host:port of the Lambda runtime API")
	pkgCmd.SetupIntConfiguration(root, config.KeyListenerPort, "listener-port", "LISTENER_PORT", lambdaExtension.DefaultListenerPort, "Port the Logs API delivers batches to")

	pkgCmd.SetupIntConfiguration(root, config.KeyMaxItems, "logs-max-items", "LOGS_MAX_ITEMS", config.MinMaxItems, "Logs API buffering: max entries per batch")
	pkgCmd.SetupIntConfiguration(root, config.KeyMaxBytes, "logs-max-bytes", "LOGS_MAX_BYTES", config.MinMaxBytes, "Logs API buffering: max bytes per batch")
	pkgCmd.SetupIntConfiguration(root, config.KeyTimeoutMs, "logs-timeout-ms", "LOGS_TIMEOUT_MS", 1000, "Logs API buffering: max time to buffer a batch")

	pkgCmd.SetupStringConfiguration(root, config.KeyLogLevel, "log-level", "LOG_LEVEL", "info", "Log level")
}

func setupLogging() *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		logger.WithField("error", err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
