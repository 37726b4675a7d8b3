package intake

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jask/etlstudio/internal/logging"
)

// Ingest turns raw bytes into an UploadedFile. A .json file that fails to
// decode returns a *ParseError and no file.
func Ingest(name string, data []byte) (UploadedFile, error) {
	kind := Classify(name)
	f := UploadedFile{
		ID:         uuid.NewString(),
		Name:       name,
		Size:       int64(len(data)),
		MIMEType:   mimetype.Detect(data).String(),
		Kind:       kind,
		Issues:     CannedIssues(kind),
		ReceivedAt: time.Now(),
	}
	switch kind {
	case KindJSON:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return UploadedFile{}, &ParseError{Name: name, Err: err}
		}
		f.Content = v
	case KindCSV:
		f.Content = string(data)
		f.Rows = countRows(data)
	}
	return f, nil
}

// countRows counts CSV records after the header. Text that is not valid CSV counts as 0.
func countRows(data []byte) int {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	n := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// Result is the outcome of loading one path.
type Result struct {
	Path string
	File UploadedFile
	Err  error
}

// Name is the display name for notifications.
func (r Result) Name() string {
	if r.File.Name != "" {
		return r.File.Name
	}
	return filepath.Base(r.Path)
}

// Loader reads files from disk and ingests them.
type Loader struct {
	logger *slog.Logger
	limit  int
}

// NewLoader creates a loader. A nil logger discards.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{logger: logging.WithComponent(logger, "intake"), limit: 4}
}

// Load reads and ingests a single path.
func (l *Loader) Load(ctx context.Context, path string) Result {
	res := Result{Path: path}
	log := logging.WithFile(l.logger, filepath.Base(path))
	if err := ctx.Err(); err != nil {
		res.Err = &ReadError{Path: path, Err: err}
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = &ReadError{Path: path, Err: err}
		log.Warn("file read failed", "error", err)
		return res
	}
	f, err := Ingest(filepath.Base(path), data)
	if err != nil {
		res.Err = err
		log.Warn("file rejected", "error", err)
		return res
	}
	res.File = f
	log.Info("file ingested", "kind", f.Kind.String(), "mime", f.MIMEType, "size", f.Size, "rows", f.Rows)
	return res
}

// LoadAll reads paths concurrently and returns results in the order given.
func (l *Loader) LoadAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = l.Load(gctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
