package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"answerlens/internal/config"
	"answerlens/internal/options"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "answerlens",
	Short: "Streamed AI answers for search questions",
	Long: `answerlens answers a question with a streamed completion from an
OpenAI-compatible endpoint, from the terminal or through a local HTTP relay.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// validation failures were already shown by the notifier
		var verr *options.ValidationError
		if !errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")
}

func initConfig() {
	config.Init(cfgFile)
}
