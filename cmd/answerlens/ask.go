package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"answerlens/internal/answer"
	"answerlens/internal/core/providers"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and stream the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		configs, err := a.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load provider configs: %w", err)
		}
		provider, err := providers.FromConfigs(configs, nil, a.log)
		if err != nil {
			return err
		}

		container := answer.NewContainer(answer.Config{
			Provider:   provider,
			Pipeline:   a.pipeline(),
			Supplement: a.supplement(),
			Renderer:   answer.NewTextRenderer(cmd.OutOrStdout()),
			Logger:     a.log,
		})
		err = container.Run(ctx, strings.Join(args, " "))
		container.Wait()
		return err
	},
}

func SetupAskCmd() {
	rootCmd.AddCommand(askCmd)
}
