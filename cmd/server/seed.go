package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealdeal/config"
	"mealdeal/database"
	"mealdeal/fixture"
)

func newSeedCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture restaurants and offers into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if c.DatabaseURL == "" {
				return fmt.Errorf("%w: DATABASE_URL", config.ErrMissing)
			}
			file, _ := cmd.Flags().GetString("file")
			dataset, err := loadDataset(file)
			if err != nil {
				return err
			}

			log, closeLog, err := buildLogger(c)
			if err != nil {
				return err
			}
			defer closeLog()

			db, err := database.Connect(cmd.Context(), c.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer db.Close()

			restaurants, offers := dataset.Models()
			if err := database.NewStore(db).Seed(cmd.Context(), restaurants, offers); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d restaurants and %d offers\n", len(restaurants), len(offers))
			return nil
		},
	}
	cmd.Flags().String("file", "", "YAML fixture file (default: built-in sample)")
	return cmd
}

func loadDataset(path string) (fixture.Dataset, error) {
	if path == "" {
		return fixture.Sample()
	}
	return fixture.Load(path)
}
