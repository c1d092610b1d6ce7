// Package api provides an HTTP API server exposing the assistant's
// search, ask and ingestion operations.
package api

import (
	"github.com/litemindhq/litemind/pkg/embeddings"
	"github.com/litemindhq/litemind/pkg/ingest"
	"github.com/litemindhq/litemind/pkg/llm"
	"github.com/litemindhq/litemind/pkg/vector"
)

// Config is the API server configuration. Collaborators are injected
// so they can be shared with the CLI commands; endpoints whose
// collaborators are nil answer 503.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Embedder converts queries into vectors for retrieval.
	Embedder embeddings.Embedder

	// VectorDriver is the chunk index behind search and ask.
	VectorDriver vector.Driver

	// Generator produces answers for /v1/ask.
	Generator llm.Generator

	// Ingestor backs /v1/ingest.
	Ingestor *ingest.Ingestor

	// TopK is the number of chunks retrieved per question.
	TopK int

	// MaxHistoryTurns bounds prompt history for /v1/ask sessions.
	MaxHistoryTurns int
}
