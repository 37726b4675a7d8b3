package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewLoggerWritesJSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(WithComponent(NewLogger("info", &buf), "pipeline"), "r-1")

	logger.Debug("hidden")
	logger.Info("step completed", "step", "extract")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "step completed", line["msg"])
	require.Equal(t, "pipeline", line["component"])
	require.Equal(t, "r-1", line["run_id"])
	require.Equal(t, "extract", line["step"])
}
