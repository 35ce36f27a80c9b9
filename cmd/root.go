package cmd

import (
	"github.com/dolittle/lambda-log-forwarder/cmd/extension"
	"github.com/spf13/cobra"

	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "log-forwarder",
	Short: "Lambda log forwarder",
	Long:  `Lambda extension that forwards function logs to a stream, one bulk write per delivered batch`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	viper.AutomaticEnv()
	rootCmd.AddCommand(extension.RunCmd)
	rootCmd.AddCommand(extension.ReplayCmd)
	extension.SetupFlags(rootCmd)
}
