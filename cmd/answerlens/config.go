package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"answerlens/internal/core"
	"answerlens/internal/options"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change provider settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved provider settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		configs, err := a.repo.Load(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "active: %s\n", configs.Provider)
		for _, t := range core.ProviderTypes() {
			cfg := configs.Config(t)
			fmt.Fprintf(out, "\n[%s]\n", t)
			fmt.Fprintf(out, "  endpoint: %s\n", cfg.Endpoint)
			fmt.Fprintf(out, "  model:    %s\n", cfg.Model)
			fmt.Fprintf(out, "  api key:  %s\n", maskKey(cfg.APIKey))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save settings for a provider and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		panel, err := options.NewPanel(cmd.Context(), a.repo, options.NewWriterNotifier(cmd.ErrOrStderr()), a.log)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("provider") {
			name, _ := flags.GetString("provider")
			if err := panel.Select(core.ProviderType(name)); err != nil {
				return err
			}
		}
		if flags.Changed("endpoint") {
			v, _ := flags.GetString("endpoint")
			panel.SetEndpoint(v)
		}
		if flags.Changed("key") {
			v, _ := flags.GetString("key")
			panel.SetAPIKey(v)
		}
		if flags.Changed("model") {
			v, _ := flags.GetString("model")
			panel.SetModel(v)
		}
		return panel.Save(cmd.Context())
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <provider>",
	Short: "Switch the active provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := core.ParseProviderType(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.repo.SetActive(cmd.Context(), provider); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "active provider: %s\n", provider)
		return nil
	},
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

func SetupConfigCmd() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configUseCmd)

	configSetCmd.Flags().String("provider", "", "provider to configure (chatgpt or gpt3), default is the active one")
	configSetCmd.Flags().String("endpoint", "", "API endpoint")
	configSetCmd.Flags().String("key", "", "API key")
	configSetCmd.Flags().String("model", "", "API model name")
}
