package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LACRA/agritrace360/internal/config"
	"github.com/LACRA/agritrace360/internal/database"
	"github.com/LACRA/agritrace360/internal/records/service"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a registry snapshot into the configured database",
	Long: `Upsert every commodity, certification and report of a YAML snapshot into the
database configured through DB_* environment variables. Records are keyed by
their business key, so seeding the same file twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	file, err := service.LoadSnapshotFile(seedFile)
	if err != nil {
		return err
	}
	collections, err := file.Collections()
	if err != nil {
		return err
	}

	db, err := database.New(&cfg.Database, cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db, service.Models()...); err != nil {
		return err
	}
	if err := service.NewRecordService(db).SeedFromSnapshot(cmd.Context(), collections); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d commodities, %d certifications, %d reports\n",
		len(collections.Commodities), len(collections.Certifications), len(collections.Reports))
	return nil
}
