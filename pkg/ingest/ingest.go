// Package ingest walks a document directory and loads its contents into
// the vector index, one extract-chunk-embed-upsert pass per file.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/chunker"
	"github.com/litemindhq/litemind/pkg/embeddings"
	"github.com/litemindhq/litemind/pkg/extract"
	"github.com/litemindhq/litemind/pkg/vector"
)

// ErrConfig is returned for unusable ingestion parameters, such as a
// missing document directory.
var ErrConfig = errors.New("ingest configuration error")

// FileStatus describes what happened to one file during a run.
type FileStatus string

const (
	// StatusProcessed means the file was chunked and upserted.
	StatusProcessed FileStatus = "processed"

	// StatusSkipped means the file was ignored (unsupported format,
	// junk name or empty content).
	StatusSkipped FileStatus = "skipped"

	// StatusFailed means extraction, embedding or upsert failed.
	StatusFailed FileStatus = "failed"
)

// FileResult records the outcome for one file.
type FileResult struct {
	Name   string     `json:"name"`
	Status FileStatus `json:"status"`
	Chunks int        `json:"chunks,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// Report summarizes an ingestion run.
type Report struct {
	Processed int          `json:"processed"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Files     []FileResult `json:"files"`
}

// Config holds tunables for the ingestor.
type Config struct {
	// ChunkSize is the window length passed to the chunker.
	ChunkSize int

	// ChunkOverlap is the window overlap passed to the chunker.
	ChunkOverlap int
}

// Ingestor loads documents into a vector index.
type Ingestor struct {
	embedder     embeddings.Embedder
	driver       vector.Driver
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

// NewIngestor creates an ingestor writing through the given embedder
// and vector driver.
func NewIngestor(embedder embeddings.Embedder, driver vector.Driver, cfg Config, logger *zap.Logger) (*Ingestor, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", ErrConfig, cfg.ChunkSize, cfg.ChunkOverlap)
	}

	return &Ingestor{
		embedder:     embedder,
		driver:       driver,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		logger:       logger,
	}, nil
}

// Run ingests every eligible file directly under dir. Faults in a
// single file are recorded in the report and never abort the run.
// Re-running over unchanged files overwrites the same entries, so runs
// are idempotent.
func (ing *Ingestor) Run(ctx context.Context, dir string) (*Report, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading document directory %q: %v", ErrConfig, dir, err)
	}

	report := &Report{}

	for _, dirEntry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := dirEntry.Name()

		if dirEntry.IsDir() {
			continue
		}
		if reason, junk := junkFile(name); junk {
			report.skip(name, reason)
			continue
		}

		result := ing.ingestFile(ctx, filepath.Join(dir, name))
		report.Files = append(report.Files, result)
		switch result.Status {
		case StatusProcessed:
			report.Processed++
		case StatusSkipped:
			report.Skipped++
		case StatusFailed:
			report.Failed++
		}
	}

	ing.logger.Info("ingestion run complete",
		zap.String("dir", dir),
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// ingestFile runs the extract, chunk, embed, upsert pipeline for one
// file.
func (ing *Ingestor) ingestFile(ctx context.Context, path string) FileResult {
	name := filepath.Base(path)

	extractor, err := extract.ForPath(path)
	if err != nil {
		ing.logger.Warn("skipping unsupported file", zap.String("file", name))
		return FileResult{Name: name, Status: StatusSkipped, Reason: "unsupported format"}
	}

	text, err := extractor.Extract(path)
	if err != nil {
		ing.logger.Warn("extraction failed", zap.String("file", name), zap.Error(err))
		return FileResult{Name: name, Status: StatusFailed, Reason: err.Error()}
	}

	if strings.TrimSpace(text) == "" {
		ing.logger.Debug("skipping empty file", zap.String("file", name))
		return FileResult{Name: name, Status: StatusSkipped, Reason: "no extractable text"}
	}

	chunks, err := chunker.Split(text, ing.chunkSize, ing.chunkOverlap)
	if err != nil {
		return FileResult{Name: name, Status: StatusFailed, Reason: err.Error()}
	}

	chunkEmbeddings, err := ing.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		ing.logger.Warn("embedding failed", zap.String("file", name), zap.Error(err))
		return FileResult{Name: name, Status: StatusFailed, Reason: err.Error()}
	}

	entries := make([]vector.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = vector.Entry{
			ID:        fmt.Sprintf("%s_%d", name, i),
			Text:      chunk,
			Embedding: chunkEmbeddings[i],
			Metadata:  map[string]string{"source": name},
		}
	}

	if err := ing.driver.Upsert(ctx, entries); err != nil {
		ing.logger.Warn("upsert failed", zap.String("file", name), zap.Error(err))
		return FileResult{Name: name, Status: StatusFailed, Reason: err.Error()}
	}

	ing.logger.Debug("ingested file",
		zap.String("file", name),
		zap.Int("chunks", len(chunks)),
	)

	return FileResult{Name: name, Status: StatusProcessed, Chunks: len(chunks)}
}

func (r *Report) skip(name, reason string) {
	r.Skipped++
	r.Files = append(r.Files, FileResult{Name: name, Status: StatusSkipped, Reason: reason})
}

// junkFile reports filesystem artifacts that should never be indexed.
func junkFile(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, "."):
		return "hidden file", true
	case strings.Contains(name, ":"):
		// Windows Zone.Identifier streams copied onto other filesystems.
		return "alternate data stream artifact", true
	case name == "Thumbs.db" || name == "desktop.ini":
		return "system artifact", true
	}
	return "", false
}
