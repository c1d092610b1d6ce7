// Package vector provides interfaces and implementations for vector storage
// and nearest-neighbor retrieval over embedded document chunks.
package vector

import "context"

// Entry is a stored chunk with its embedding and metadata.
type Entry struct {
	// ID is the unique chunk identifier, "<document id>_<ordinal>".
	ID string

	// Text is the chunk's raw text.
	Text string

	// Embedding is the vector representation of Text. All entries in one
	// index must come from the same embedding model; the index checks the
	// dimension but callers must guarantee model identity.
	Embedding []float32

	// Metadata holds string key/value pairs. The ingestion pipeline always
	// sets "source" to the originating document id.
	Metadata map[string]string
}

// Result is a search hit with its distance to the query vector.
type Result struct {
	Entry

	// Distance is the query-to-entry distance in the embedding geometry
	// (lower = more similar). Results are ordered by ascending distance.
	Distance float32
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// Upsert stores entries, overwriting any existing entry with the same
	// ID. Writes are durable before Close returns.
	Upsert(ctx context.Context, entries []Entry) error

	// Query finds the k nearest entries to the given embedding, ordered by
	// ascending distance. Returns fewer than k results when the index holds
	// fewer entries, and an empty slice for an empty index.
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)

	// List returns every stored entry, for inspection and debugging.
	List(ctx context.Context) ([]Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close flushes and releases any resources held by the driver.
	Close() error
}
