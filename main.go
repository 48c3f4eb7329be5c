package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leafdoc-core/server/internal/agent/model"
)

func main() {
	var (
		envFile string
		lang    string
	)

	rootCmd := &cobra.Command{
		Use:   "leafdoc",
		Short: "Crop leaf diagnosis in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			if lang != "" {
				cfg.DefaultLanguage = lang
			}
			app, err := buildApp(ctx, cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer app.Close()
			return newCLI(app, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "Display language, e.g. hi or hi-IN (overrides DEFAULT_LANGUAGE)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "crops",
		Short: "List supported crops",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range model.Crops {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s %s\n", c.ID, c.Icon, c.Name)
			}
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "languages",
		Short: "List supported display languages",
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range model.Languages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-3s %s (%s)\n", l.Code, l.Name, l.NativeName)
			}
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
