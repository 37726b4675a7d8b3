package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/etlstudio/internal/database"
	"github.com/jask/etlstudio/internal/database/repository"
	"github.com/jask/etlstudio/internal/fixtures"
	"github.com/jask/etlstudio/internal/pipeline"
	"github.com/jask/etlstudio/internal/service"
)

func testRouter(t *testing.T) (http.Handler, *pipeline.Runner) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "api.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(context.Background(), db))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	schema := repository.NewSchemaRepo(db)
	runner := pipeline.NewRunner(pipeline.DefaultSteps(), pipeline.Options{Delay: time.Millisecond, Metrics: pipeline.FixedMetrics{RecordsProcessed: 10}})
	srv := NewServer(ServerConfig{
		Schema:     schema,
		Export:     &service.ExportService{Schema: schema, Dir: filepath.Join(dir, "exports")},
		Runner:     runner,
		Dashboard:  fixtures.MustDashboard(),
		RunContext: ctx,
	})
	return srv.httpServer.Handler, runner
}

func do(t *testing.T, h http.Handler, method, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	if out != nil {
		require.NoError(t, json.NewDecoder(rr.Body).Decode(out))
	}
	return rr
}

func TestHealth(t *testing.T) {
	h, _ := testRouter(t)
	var resp HealthResponse
	rr := do(t, h, http.MethodGet, "/health", &resp)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", resp.Status)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/tables", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestListTables(t *testing.T) {
	h, _ := testRouter(t)
	var resp TablesResponse
	rr := do(t, h, http.MethodGet, "/tables", &resp)
	require.Equal(t, http.StatusOK, rr.Code)

	names := map[string]int{}
	for _, tbl := range resp.Tables {
		names[tbl.Name] = tbl.Records
	}
	require.Equal(t, 3, names["customers"])
	require.Contains(t, names, "order_items")
}

func TestGetTable(t *testing.T) {
	h, _ := testRouter(t)
	var resp TableResponse
	rr := do(t, h, http.MethodGet, "/tables/orders", &resp)
	require.Equal(t, http.StatusOK, rr.Code)

	var fk string
	for _, c := range resp.Columns {
		if c.Name == "customer_id" {
			fk = c.ForeignKey
		}
	}
	require.Equal(t, "customers.customer_id", fk)

	var errResp ErrorResponse
	rr = do(t, h, http.MethodGet, "/tables/nope", &errResp)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestListRowsRendersNullAsJSONNull(t *testing.T) {
	h, _ := testRouter(t)
	var resp RowsResponse
	rr := do(t, h, http.MethodGet, "/tables/customers/rows", &resp)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.Rows, 3)

	phone := -1
	for i, c := range resp.Columns {
		if c == "phone" {
			phone = i
		}
	}
	require.GreaterOrEqual(t, phone, 0)
	require.Nil(t, resp.Rows[2][phone])
	require.Equal(t, "+1-555-0123", *resp.Rows[0][phone])

	rr = do(t, h, http.MethodGet, "/tables/customers/rows?limit=1", &resp)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.Rows, 1)

	rr = do(t, h, http.MethodGet, "/tables/customers/rows?limit=0", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExportTable(t *testing.T) {
	h, _ := testRouter(t)
	var resp ExportResponse
	rr := do(t, h, http.MethodPost, "/tables/products/export", &resp)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, 3, resp.Rows)
	_, err := os.Stat(resp.Path)
	require.NoError(t, err)
}

func TestRelationships(t *testing.T) {
	h, _ := testRouter(t)
	var resp RelationshipsResponse
	rr := do(t, h, http.MethodGet, "/relationships", &resp)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.Relationships, 3)
}

func TestDashboardFixture(t *testing.T) {
	h, _ := testRouter(t)
	var resp fixtures.Dashboard
	rr := do(t, h, http.MethodGet, "/dashboard", &resp)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, resp.KPIs, 4)
	require.Equal(t, fixtures.MustDashboard().Title, resp.Title)
}

func TestPipelineRunOverHTTP(t *testing.T) {
	h, runner := testRouter(t)

	var snap PipelineResponse
	do(t, h, http.MethodGet, "/pipeline", &snap)
	require.False(t, snap.Running)
	require.Len(t, snap.Steps, 5)
	require.Equal(t, "pending", snap.Steps[0].Status)

	var started RunStartedResponse
	rr := do(t, h, http.MethodPost, "/pipeline/runs", &started)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.NotEmpty(t, started.RunID)

	require.Eventually(t, func() bool { return runner.Snapshot().Finished() }, 5*time.Second, time.Millisecond)

	do(t, h, http.MethodGet, "/pipeline", &snap)
	require.True(t, snap.Finished)
	require.Equal(t, started.RunID, snap.RunID)
	require.Equal(t, 100.0, snap.Progress)
	require.Equal(t, 10, *snap.Steps[4].RecordsProcessed)
}

func TestStartRunConflict(t *testing.T) {
	h, runner := testRouter(t)
	_, ok := runner.Start()
	require.True(t, ok)

	var errResp ErrorResponse
	rr := do(t, h, http.MethodPost, "/pipeline/runs", &errResp)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "CONFLICT", errResp.Code)
}
