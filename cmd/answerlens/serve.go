package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"answerlens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the answerlens relay",
	Long:  `Start the HTTP relay that streams answers and edits provider settings for browser front-ends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		deps := server.Deps{
			Repo:     a.repo,
			Pipeline: a.pipeline(),
			Logger:   a.log,
		}
		if a.remote != nil {
			deps.Remote = a.remote
		}

		srv, err := server.New(a.settings.Addr(), deps)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func SetupServeCmd() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Server port")
	serveCmd.Flags().StringP("host", "H", "127.0.0.1", "Server host")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}
