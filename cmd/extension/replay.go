package extension

import (
	"context"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dolittle/lambda-log-forwarder/pkg/config"
	lambdaExtension "github.com/dolittle/lambda-log-forwarder/pkg/extension"
	"github.com/dolittle/lambda-log-forwarder/pkg/logforwarder"
)

var ReplayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Forward a saved Logs API batch once",
	Long: `
	Reads a Logs API delivery (a JSON array of {time, type, record}) from a file,
	or stdin when the file is "-", and forwards it as one batch.

	KDS_NAME=my-stream STREAM_BACKEND=stdout log-forwarder replay ./batch.json
	`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logContext := setupLogging()

		if err := replay(cmd.Context(), logContext, args[0]); err != nil {
			logContext.WithField("error", err).Error("replay failed")
			os.Exit(1)
		}
	},
}

func replay(ctx context.Context, logContext *logrus.Logger, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	body, err := readInput(path)
	if err != nil {
		return err
	}

	batch, err := lambdaExtension.DecodeBatch(body)
	if err != nil {
		return err
	}

	repo, closeRepo, err := newRepo(logContext, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	forwarder, err := logforwarder.NewForwarder(logContext, cfg.StreamName, repo)
	if err != nil {
		return err
	}

	if err := forwarder.Forward(ctx, batch); err != nil {
		return err
	}

	logContext.WithFields(logrus.Fields{
		"entries":     len(batch),
		"stream_name": cfg.StreamName,
	}).Info("batch replayed")
	return nil
}

func readInput(path string) ([]byte, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening batch file")
		}
		defer f.Close()
		in = f
	}
	return ioutil.ReadAll(in)
}
