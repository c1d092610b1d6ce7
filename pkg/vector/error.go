package vector

import "errors"

var (
	// ErrNotFound is returned when the backing collection or index file
	// does not exist. Ingestion must run before the first query.
	ErrNotFound = errors.New("index not found")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")

	// ErrDimension is returned when an entry's embedding does not match
	// the index's configured dimensionality.
	ErrDimension = errors.New("embedding dimension mismatch")
)
