package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestClassify(t *testing.T) {
	t.Parallel()
	cases := map[string]Kind{
		"a.json":         KindJSON,
		"A.JSON":         KindJSON,
		"orders.csv":     KindCSV,
		"notes.txt":      KindOther,
		"json":           KindOther,
		"archive.csv.gz": KindOther,
	}
	for name, want := range cases {
		require.Equal(t, want, Classify(name), name)
	}
}

func TestIngestJSON(t *testing.T) {
	t.Parallel()
	f, err := Ingest("a.json", []byte(`{"x":1}`))
	require.NoError(t, err)
	require.Equal(t, "a.json", f.Name)
	require.Equal(t, map[string]any{"x": float64(1)}, f.Content)
	require.Equal(t, []string{
		"Mixed ID formats detected",
		"Inconsistent field naming",
		"Null values found in critical fields",
	}, f.Issues)
	require.EqualValues(t, 7, f.Size)
	require.NotEmpty(t, f.ID)
	require.NotEmpty(t, f.MIMEType)
	require.Zero(t, f.Rows)
}

func TestIngestMalformedJSON(t *testing.T) {
	t.Parallel()
	f, err := Ingest("b.json", []byte(`{bad`))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "b.json", pe.Name)
	require.Zero(t, f)
}

func TestIngestCSVKeepsRawText(t *testing.T) {
	t.Parallel()
	body := "id,date\n1,2024-01-01\n2,01/02/2024\n"
	f, err := Ingest("c.csv", []byte(body))
	require.NoError(t, err)
	require.Equal(t, body, f.Content)
	require.Equal(t, []string{
		"Multiple date formats detected",
		"Data type inconsistencies",
		"Duplicate records found",
	}, f.Issues)
	require.Equal(t, 2, f.Rows)
}

func TestIngestInvalidCSVStillAccepted(t *testing.T) {
	t.Parallel()
	f, err := Ingest("broken.csv", []byte("a,\"b\nc"))
	require.NoError(t, err)
	require.Equal(t, "a,\"b\nc", f.Content)
	require.Zero(t, f.Rows)
	require.Len(t, f.Issues, 3)
}

func TestIngestOtherFile(t *testing.T) {
	t.Parallel()
	f, err := Ingest("d.txt", []byte("hello"))
	require.NoError(t, err)
	require.Nil(t, f.Content)
	require.Nil(t, f.Issues)
	require.Equal(t, KindOther, f.Kind)
}

func TestCannedIssuesAreCopies(t *testing.T) {
	t.Parallel()
	a := CannedIssues(KindJSON)
	a[0] = "changed"
	require.Equal(t, "Mixed ID formats detected", CannedIssues(KindJSON)[0])
}

func TestLoadReadError(t *testing.T) {
	t.Parallel()
	l := NewLoader(nil)
	res := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, res.Err, ErrRead)
	require.ErrorIs(t, res.Err, os.ErrNotExist)
	require.Equal(t, "missing.json", res.Name())
}

func TestLoadAllKeepsSelectionOrderAndStoresOnlySuccesses(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.json", `{"x":1}`),
		writeFile(t, dir, "b.json", `{bad`),
		writeFile(t, dir, "c.csv", "id\n1\n"),
		writeFile(t, dir, "d.txt", "plain"),
	}

	results := NewLoader(nil).LoadAll(context.Background(), paths)
	require.Len(t, results, 4)
	for i, r := range results {
		require.Equal(t, paths[i], r.Path)
	}

	store := NewStore()
	notes := store.Accept(results...)
	require.Equal(t, []Notification{
		{Text: "a.json uploaded and analyzed"},
		{Text: "Error processing b.json", Error: true},
		{Text: "c.csv uploaded and analyzed"},
		{Text: "d.txt uploaded and analyzed"},
	}, notes)

	files := store.List()
	require.Equal(t, 3, store.Len())
	require.Equal(t, []string{"a.json", "c.csv", "d.txt"}, []string{files[0].Name, files[1].Name, files[2].Name})
	require.Nil(t, files[2].Issues)
}

func TestStoreListIsACopy(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.Append(UploadedFile{Name: "a.json"})
	list := s.List()
	list[0].Name = "mutated"
	require.Equal(t, "a.json", s.List()[0].Name)
}

func TestLoadAllCancelled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := writeFile(t, dir, "a.json", `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := NewLoader(nil).LoadAll(ctx, []string{p})
	require.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestExpandFiltersDirectoriesAndGlobs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "x\n")
	writeFile(t, dir, "a.json", "{}")
	writeFile(t, dir, "notes.txt", "skip")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	got, err := Expand([]string{dir})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.csv")}, got)

	got, err = Expand([]string{filepath.Join(dir, "*")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.csv")}, got)
}

func TestExpandKeepsExplicitPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "kept")
	missing := filepath.Join(dir, "missing.json")

	got, err := Expand([]string{txt, missing})
	require.NoError(t, err)
	require.Equal(t, []string{txt, missing}, got)
}

func TestParseSelection(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"a.json", "b.csv", "dir/"}, ParseSelection(" a.json, b.csv\tdir/ "))
	require.Empty(t, ParseSelection("  "))
}
