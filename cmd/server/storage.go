package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/database"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/logging"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/persistence"
	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage the persisted report collection",
}

var storageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard stored reports and restore the default collection",
	RunE:  runStorageReset,
}

func init() {
	storageCmd.AddCommand(storageResetCmd)
}

// openStorage returns the key-value backend selected by STORAGE_DRIVER.
// The returned close func releases the database connection, if any.
func openStorage(cfg *config.Config) (persistence.KV, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if err := database.EnsureDatabase(cfg); err != nil {
			return nil, nil, err
		}
		if err := database.Connect(cfg); err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(); err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		closeDB := func() {
			if err := database.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
		return persistence.NewGormKV(database.DB), closeDB, nil
	default:
		return persistence.NewMemoryKV(), func() {}, nil
	}
}

func runStorageReset(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}

	kv, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	reports, err := persistence.NewAdapter(kv, cfg.StorageNamespace).Reset(ctx)
	if err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}
	slog.Info("storage reset", "namespace", cfg.StorageNamespace, "reports", len(reports))
	return nil
}
