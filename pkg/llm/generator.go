// Package llm defines the text generation interface used to answer
// questions from assembled prompts.
package llm

import (
	"context"
	"errors"
)

// ErrGeneration is returned when the generation backend fails to
// produce a completion.
var ErrGeneration = errors.New("generation error")

// Generator produces a completion for a fully assembled prompt.
type Generator interface {
	// Generate sends the prompt to the backend and returns the
	// completed text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}
