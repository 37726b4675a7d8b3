package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jask/etlstudio/internal/database"
	"github.com/jask/etlstudio/internal/logging"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// Reset wipes the warehouse tables and loads the sample rows again.
// It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		// children first so foreign keys hold
		tables := []string{
			"order_items",
			"orders",
			"products",
			"customers",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	if err := database.SeedDefaults(ctx, s.DB); err != nil {
		return err
	}
	if s.Logger != nil {
		logging.WithComponent(s.Logger, "maintenance").Info("database reset")
	}
	return nil
}
