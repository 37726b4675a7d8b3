package sampledata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/etlstudio/internal/intake"
)

func TestWriteProducesIngestibleFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "samples")
	paths, err := Write(dir, Options{Customers: 5, Orders: 10, Seed: 3})
	require.NoError(t, err)
	require.Len(t, paths, 4)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		f, err := intake.Ingest(filepath.Base(p), data)
		require.NoError(t, err, p)
		require.Len(t, f.Issues, 3)
	}

	data, err := os.ReadFile(filepath.Join(dir, CustomersFile))
	require.NoError(t, err)
	var customers []map[string]any
	require.NoError(t, json.Unmarshal(data, &customers))
	require.Len(t, customers, 7)
	require.Equal(t, customers[0], customers[5])

	data, err = os.ReadFile(filepath.Join(dir, OrdersFile))
	require.NoError(t, err)
	f, err := intake.Ingest(OrdersFile, data)
	require.NoError(t, err)
	require.Equal(t, 11, f.Rows)
}

func TestWriteDefaults(t *testing.T) {
	paths, err := Write(t.TempDir(), Options{})
	require.NoError(t, err)
	require.Len(t, paths, 4)
}
