package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	KeyStreamName      = "stream.name"
	KeyStreamBackend   = "stream.backend"
	KeyFailOnPartial   = "stream.failOnPartial"
	KeyAWSRegion       = "aws.region"
	KeyKinesisEndpoint = "aws.endpoint"
	KeyNatsServer      = "stan.natsServer"
	KeyStanClusterID   = "stan.clusterID"
	KeyStanClientID    = "stan.clientID"
	KeyExtensionName   = "extension.name"
	KeyRuntimeAPI      = "extension.runtimeAPI"
	KeyListenerPort    = "extension.listenPort"
	KeyMaxItems        = "logs.maxItems"
	KeyMaxBytes        = "logs.maxBytes"
	KeyTimeoutMs       = "logs.timeoutMs"
	KeyLogLevel        = "log.level"
)

const (
	BackendKinesis = "kinesis"
	BackendStan    = "stan"
	BackendStdout  = "stdout"
)

// Logs API buffering bounds.
const (
	MinMaxItems  = 1000
	MaxMaxItems  = 10000
	MinMaxBytes  = 262144
	MaxMaxBytes  = 1048576
	MinTimeoutMs = 25
	MaxTimeoutMs = 30000
)

var (
	ErrMissingStreamName = errors.New("KDS_NAME is not set")
	ErrUnknownBackend    = errors.New("unknown stream backend")
	ErrMissingRuntimeAPI = errors.New("AWS_LAMBDA_RUNTIME_API is not set")
)

type Buffering struct {
	MaxItems  int
	MaxBytes  int
	TimeoutMs int
}

type Stan struct {
	NatsServer string
	ClusterID  string
	ClientID   string
}

type Config struct {
	StreamName      string
	Backend         string
	FailOnPartial   bool
	AWSRegion       string
	KinesisEndpoint string
	Stan            Stan
	ExtensionName   string
	RuntimeAPI      string
	ListenerPort    int
	Buffering       Buffering
	LogLevel        string
}

// Load reads the stream side of the configuration. The stream name is
// resolved once here and never re-read.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		StreamName:      v.GetString(KeyStreamName),
		Backend:         v.GetString(KeyStreamBackend),
		FailOnPartial:   v.GetBool(KeyFailOnPartial),
		AWSRegion:       v.GetString(KeyAWSRegion),
		KinesisEndpoint: v.GetString(KeyKinesisEndpoint),
		Stan: Stan{
			NatsServer: v.GetString(KeyNatsServer),
			ClusterID:  v.GetString(KeyStanClusterID),
			ClientID:   v.GetString(KeyStanClientID),
		},
		ExtensionName: v.GetString(KeyExtensionName),
		RuntimeAPI:    v.GetString(KeyRuntimeAPI),
		ListenerPort:  v.GetInt(KeyListenerPort),
		Buffering: Buffering{
			MaxItems:  v.GetInt(KeyMaxItems),
			MaxBytes:  v.GetInt(KeyMaxBytes),
			TimeoutMs: v.GetInt(KeyTimeoutMs),
		},
		LogLevel: v.GetString(KeyLogLevel),
	}

	if cfg.StreamName == "" {
		return cfg, ErrMissingStreamName
	}

	switch cfg.Backend {
	case BackendKinesis, BackendStdout:
	case BackendStan:
		if cfg.Stan.NatsServer == "" || cfg.Stan.ClusterID == "" {
			return cfg, errors.New("stan backend needs NATS_SERVER and STAN_CLUSTER_ID")
		}
	default:
		return cfg, errors.Wrapf(ErrUnknownBackend, "%q", cfg.Backend)
	}

	return cfg, nil
}

// LoadExtension also validates what is needed to run inside Lambda.
func LoadExtension(v *viper.Viper) (Config, error) {
	cfg, err := Load(v)
	if err != nil {
		return cfg, err
	}

	if cfg.RuntimeAPI == "" {
		return cfg, ErrMissingRuntimeAPI
	}
	if cfg.ExtensionName == "" {
		return cfg, errors.New("extension name is empty")
	}
	if cfg.ListenerPort <= 0 || cfg.ListenerPort > 65535 {
		return cfg, errors.Errorf("listener port %d out of range", cfg.ListenerPort)
	}

	b := cfg.Buffering
	if b.MaxItems < MinMaxItems || b.MaxItems > MaxMaxItems {
		return cfg, errors.Errorf("logs.maxItems must be between %d and %d, got %d", MinMaxItems, MaxMaxItems, b.MaxItems)
	}
	if b.MaxBytes < MinMaxBytes || b.MaxBytes > MaxMaxBytes {
		return cfg, errors.Errorf("logs.maxBytes must be between %d and %d, got %d", MinMaxBytes, MaxMaxBytes, b.MaxBytes)
	}
	if b.TimeoutMs < MinTimeoutMs || b.TimeoutMs > MaxTimeoutMs {
		return cfg, errors.Errorf("logs.timeoutMs must be between %d and %d, got %d", MinTimeoutMs, MaxTimeoutMs, b.TimeoutMs)
	}

	return cfg, nil
}
