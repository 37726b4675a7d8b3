package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ETLSTUDIO_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "etlstudio", "etlstudio.db"), cfg.Database.Path)
	require.Equal(t, 2*time.Second, cfg.Pipeline.StepDelay)
	require.Equal(t, OrderCompletion, cfg.Ingest.Order)
	require.Equal(t, 3*time.Second, cfg.UI.ToastTTL)
	require.Equal(t, "127.0.0.1:8765", cfg.Server.Addr)
	require.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, filepath.Join(cfg.Data.Dir, "exports"), cfg.ExportDir())
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ETLSTUDIO_PIPELINE_STEP_DELAY", "250ms")
	t.Setenv("ETLSTUDIO_INGEST_ORDER", "Selection")
	t.Setenv("ETLSTUDIO_PIPELINE_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.Pipeline.StepDelay)
	require.Equal(t, OrderSelection, cfg.Ingest.Order)
	require.EqualValues(t, 42, cfg.Pipeline.Seed)
}

func TestLoadFromExplicitFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	body := "[pipeline]\nstep_delay = \"10ms\"\n\n[log]\nlevel = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("ETLSTUDIO_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10*time.Millisecond, cfg.Pipeline.StepDelay)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	home := isolate(t)
	t.Setenv("ETLSTUDIO_CONFIG", filepath.Join(home, "nope.toml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownOrder(t *testing.T) {
	isolate(t)
	t.Setenv("ETLSTUDIO_INGEST_ORDER", "random")

	_, err := Load()
	require.ErrorContains(t, err, "ingest.order")
}

func TestValidateRejectsNonPositiveDelay(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Path: "x.db"},
		Ingest:   IngestConfig{Order: OrderCompletion},
	}
	require.ErrorContains(t, cfg.Validate(), "step_delay")
}

func TestSaveThenLoad(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Pipeline.StepDelay = 750 * time.Millisecond
	cfg.Ingest.Order = OrderSelection
	require.NoError(t, Save(cfg))
	require.FileExists(t, filepath.Join(home, ".config", "etlstudio", "config.toml"))

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, again.Pipeline.StepDelay)
	require.Equal(t, OrderSelection, again.Ingest.Order)
}
