package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model names offered by the remote configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.remote == nil {
			return errors.New("remote.base_url is not configured")
		}
		names, err := a.remote.FetchModelNames(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func SetupModelsCmd() {
	rootCmd.AddCommand(modelsCmd)
}
