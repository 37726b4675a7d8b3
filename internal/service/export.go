package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/logging"
)

// ExportService writes whole tables to CSV files.
type ExportService struct {
	Schema *repository.SchemaRepo
	Dir    string
	Logger *slog.Logger
	Now    func() time.Time
}

// ExportResult describes a finished export.
type ExportResult struct {
	Table string
	Path  string
	Rows  int
}

// Export writes every row of table to <Dir>/<table>-<timestamp>.csv.
// NULL values are written as empty fields.
func (s *ExportService) Export(ctx context.Context, table string) (ExportResult, error) {
	if s.Schema == nil {
		return ExportResult{}, fmt.Errorf("export: schema repo not configured")
	}
	set, err := s.Schema.Rows(ctx, table, 0)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export %s: %w", table, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("export dir: %w", err)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.csv", table, now().Format("20060102-150405")))

	f, err := os.Create(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export %s: %w", table, err)
	}
	w := csv.NewWriter(f)
	_ = w.Write(set.Columns)
	for _, row := range set.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			if !c.Null {
				rec[i] = c.Text
			}
		}
		_ = w.Write(rec)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return ExportResult{}, fmt.Errorf("export %s: %w", table, err)
	}
	if err := f.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("export %s: %w", table, err)
	}

	if s.Logger != nil {
		logging.WithComponent(s.Logger, "export").Info("table exported", "table", table, "rows", len(set.Rows), "path", path)
	}
	return ExportResult{Table: table, Path: path, Rows: len(set.Rows)}, nil
}
