package emit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/matter/compiler/gen"
)

// Writer renders plans and writes the resulting source files in
// parallel.
type Writer struct {
	outDir  string
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks what a write pass produced.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer targeting the given output directory.
func NewWriter(outDir string) *Writer {
	return &Writer{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the metrics of the last write pass.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// FileName returns the output file name for a plan.
func FileName(p *gen.Plan) string {
	return strings.ToLower(p.Name) + "_matter.go"
}

// WriteAll renders and writes every plan in parallel.
func (w *Writer) WriteAll(ctx context.Context, plans []*gen.Plan) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, p := range plans {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writePlan(p)
			}
		})
	}
	return eg.Wait()
}

func (w *Writer) writePlan(p *gen.Plan) error {
	var buf bytes.Buffer
	if err := Render(p).Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", p.Target, err)
	}

	path := filepath.Join(w.outDir, FileName(p))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(buf.Len())
	w.mu.Unlock()
	return nil
}
