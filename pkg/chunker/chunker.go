// Package chunker splits raw document text into overlapping fixed-size
// windows used as the unit of embedding and retrieval.
package chunker

import (
	"errors"
	"fmt"
)

// ErrConfig is returned when chunking parameters are invalid.
var ErrConfig = errors.New("invalid chunking config")

// Split divides text into windows of at most size bytes, each window
// starting size-overlap bytes after the previous one. The final window may
// be shorter than size. Empty text yields no chunks.
//
// Split is a pure function of its inputs and requires size > overlap >= 0.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", ErrConfig, overlap)
	}
	if size <= overlap {
		return nil, fmt.Errorf("%w: chunk size %d must be greater than overlap %d", ErrConfig, size, overlap)
	}

	if len(text) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(text)+step-1)/step)

	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}

	return chunks, nil
}
