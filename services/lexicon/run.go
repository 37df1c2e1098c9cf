package lexicon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"parcelgraph/lib/scrapers/leepa"

	"go.opentelemetry.io/otel/attribute"
)

// Counts summarizes one batch run.
type Counts struct {
	Succeeded int
	Skipped   int
	Failed    int
}

type docStatus int

const (
	statusSucceeded docStatus = iota
	statusSkipped
	statusFailed
)

// Run converts every .html document under inputDir, writing one
// pruned graph JSON per folio into outputDir. Documents fan out
// across a worker pool; a failure in one document never stops the
// batch. Cancelling ctx stops handing out new documents.
func (s *Service) Run(ctx context.Context, inputDir, outputDir string, workers int) (Counts, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("input_dir", inputDir))

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Counts{}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Counts{}, err
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var counts Counts

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				folio := strings.TrimSuffix(name, ".html")
				status := s.processDocument(ctx, filepath.Join(inputDir, name), folio, outputDir)

				mu.Lock()
				switch status {
				case statusSucceeded:
					counts.Succeeded++
				case statusSkipped:
					counts.Skipped++
				default:
					counts.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		select {
		case jobs <- entry.Name():
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	slog.InfoContext(ctx, "batch conversion finished",
		"succeeded", counts.Succeeded,
		"skipped", counts.Skipped,
		"failed", counts.Failed)
	return counts, ctx.Err()
}

// processDocument runs the pipeline for one file. Panics are
// contained here so a malformed document only fails itself.
func (s *Service) processDocument(ctx context.Context, path, folio, outputDir string) (status docStatus) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic while converting document",
				"folio", folio, "panic", r, "stack", string(debug.Stack()))
			status = statusFailed
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		slog.ErrorContext(ctx, "open document", "folio", folio, "err", err)
		return statusFailed
	}
	rec, err := leepa.Parse(ctx, f, folio)
	f.Close()
	if err != nil {
		slog.ErrorContext(ctx, "parse document", "folio", folio, "err", err)
		return statusFailed
	}

	out, ok, err := s.ConvertRecord(ctx, rec)
	if err != nil {
		slog.ErrorContext(ctx, "convert document", "folio", folio, "err", err)
		return statusFailed
	}
	if !ok {
		return statusSkipped
	}

	if err := os.WriteFile(filepath.Join(outputDir, folio+".json"), out, 0o644); err != nil {
		slog.ErrorContext(ctx, "write output", "folio", folio, "err", err)
		return statusFailed
	}
	return statusSucceeded
}
