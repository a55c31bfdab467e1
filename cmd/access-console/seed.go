package main

import (
	"github.com/spf13/cobra"

	"access-console/internal/config"
	"access-console/internal/infrastructure/seed"
)

func newSeedCmd() *cobra.Command {
	var source, file, table, region string
	var count int
	var rngSeed uint64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print a seed dataset as YAML",
		Long:  `Print the dataset a new session would start with. The output can be edited and fed back with SEED_SOURCE=file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{
				SeedSource:      source,
				SeedFile:        file,
				SeedRandomCount: count,
				SeedRandomSeed:  rngSeed,
				SeedTable:       table,
				AWSRegion:       region,
				AuthMode:        "none",
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			provider, err := newProvider(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ds, err := provider.Load(cmd.Context())
			if err != nil {
				return err
			}
			return seed.Encode(cmd.OutOrStdout(), ds)
		},
	}
	cmd.Flags().StringVar(&source, "source", config.SeedDefault, "seed source: default, random, file or dynamodb")
	cmd.Flags().StringVar(&file, "file", "", "seed file path for --source=file")
	cmd.Flags().StringVar(&table, "table", "", "table name for --source=dynamodb")
	cmd.Flags().StringVar(&region, "region", "", "AWS region for --source=dynamodb")
	cmd.Flags().IntVar(&count, "count", 20, "number of users for --source=random")
	cmd.Flags().Uint64Var(&rngSeed, "rand-seed", 1, "generator seed for --source=random")
	return cmd
}
