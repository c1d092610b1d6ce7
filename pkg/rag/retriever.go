// Package rag ties retrieval, prompt assembly and generation into the
// per-turn question answering flow.
package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/embeddings"
	"github.com/litemindhq/litemind/pkg/vector"
)

// Retriever finds the stored chunks most similar to a query.
type Retriever struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the given embedder and vector
// driver.
func NewRetriever(embedder embeddings.Embedder, driver vector.Driver, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		driver:   driver,
		logger:   logger,
	}
}

// Retrieve embeds the query and returns the k nearest stored chunks in
// ascending distance order. An empty index yields an empty result, not
// an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]vector.Result, error) {
	queryEmbeddings, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(queryEmbeddings) != 1 {
		return nil, fmt.Errorf("%w: got %d embeddings for one query", embeddings.ErrEmbedding, len(queryEmbeddings))
	}

	results, err := r.driver.Query(ctx, queryEmbeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	r.logger.Debug("retrieved context",
		zap.String("query", query),
		zap.Int("k", k),
		zap.Int("results", len(results)),
	)

	return results, nil
}
