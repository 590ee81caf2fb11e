package main

import (
	"github.com/spf13/cobra"

	"mealdeal/config"
)

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "mealdeal",
		Short:         "MealDeal restaurant offers backend",
		Long:          "HTTP API, seeding and offline search for the MealDeal restaurant deals marketplace.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().String("port", "", "HTTP port (default from $PORT or 3003)")

	root.AddCommand(
		newServeCmd(&cfg),
		newSeedCmd(&cfg),
		newSearchCmd(),
	)
	return root
}
