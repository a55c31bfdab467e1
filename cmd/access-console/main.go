package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"access-console/internal/config"
	"access-console/internal/infrastructure/seed"
	"access-console/internal/ports"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "access-console",
		Short:         "Access Console",
		Long:          `Manage users, roles and their permissions through per-session access models.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSeedCmd(), newTokenCmd())
	return root
}

// newProvider picks the seed data source named by SEED_SOURCE.
func newProvider(ctx context.Context, cfg config.Config) (ports.DataProvider, error) {
	switch cfg.SeedSource {
	case config.SeedRandom:
		return seed.RandomProvider{Count: cfg.SeedRandomCount, Seed: cfg.SeedRandomSeed}, nil
	case config.SeedFile:
		return seed.FileProvider{Path: cfg.SeedFile}, nil
	case config.SeedDynamo:
		client, err := seed.NewDynamoDBClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return seed.NewDynamoDBProvider(client, cfg.SeedTable), nil
	default:
		return seed.DefaultProvider{}, nil
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
