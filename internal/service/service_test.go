package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/etlstudio/internal/database"
	"github.com/jask/etlstudio/internal/database/repository"
)

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	t.Log("migrations applied")

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))
	return db
}

func TestExportWritesAllRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "exports")
	svc := &ExportService{
		Schema: repository.NewSchemaRepo(seededDB(t)),
		Dir:    dir,
		Now:    func() time.Time { return time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC) },
	}

	res, err := svc.Export(ctx, "customers")
	require.NoError(t, err)
	require.Equal(t, 3, res.Rows)
	require.Equal(t, filepath.Join(dir, "customers-20240304-050607.csv"), res.Path)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	require.Equal(t, []string{"customer_id", "full_name", "email", "phone", "created_at", "updated_at"}, recs[0])

	nullPhones := 0
	for _, r := range recs[1:] {
		if r[3] == "" {
			nullPhones++
		}
	}
	require.Equal(t, 1, nullPhones, "NULL exported as empty field")
}

func TestExportUnknownTable(t *testing.T) {
	t.Parallel()
	svc := &ExportService{Schema: repository.NewSchemaRepo(seededDB(t)), Dir: t.TempDir()}
	_, err := svc.Export(context.Background(), "sqlite_master")
	require.ErrorIs(t, err, repository.ErrUnknownTable)
}

func TestResetRestoresSampleRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := seededDB(t)

	_, err := db.ExecContext(ctx, `INSERT INTO products(product_id, product_name, category, price, stock_quantity) VALUES(99, 'Extra', 'Misc', 1.5, 2)`)
	require.NoError(t, err)

	svc := &MaintenanceService{DB: db}
	require.NoError(t, svc.Reset(ctx))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n))
	require.Equal(t, 3, n)
}

func TestResetWithoutDB(t *testing.T) {
	t.Parallel()
	require.Error(t, (&MaintenanceService{}).Reset(context.Background()))
}

func TestClosestTable(t *testing.T) {
	t.Parallel()
	names := []string{"customers", "orders", "products", "order_items"}

	cases := map[string]string{
		"cust":       "customers",
		"ORD":        "orders",
		"order_itm":  "order_items",
		"prodcts":    "products",
		"costumers":  "customers",
		"  orders  ": "orders",
	}
	for q, want := range cases {
		got, ok := ClosestTable(q, names)
		require.True(t, ok, q)
		require.Equal(t, want, got, q)
	}

	_, ok := ClosestTable("", names)
	require.False(t, ok)
	_, ok = ClosestTable("x", nil)
	require.False(t, ok)
}

func TestAnalysisGuard(t *testing.T) {
	t.Parallel()
	var a AnalysisService
	require.True(t, a.Begin())
	require.False(t, a.Begin())
	require.True(t, a.Running())
	require.Equal(t, "Data quality analysis completed", a.Finish())
	require.False(t, a.Running())
	require.True(t, a.Begin())
}

func TestAnalysisRun(t *testing.T) {
	t.Parallel()
	var a AnalysisService
	msg, err := a.Run(context.Background(), time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, AnalysisDoneMessage, msg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Run(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, a.Running())
}
