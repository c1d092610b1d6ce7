// Package stt defines the speech-to-text interface used to turn call
// audio into text for the assistant.
package stt

import (
	"context"
	"errors"
)

// ErrTranscription is returned when the transcription backend fails.
// Callers typically degrade to an empty transcript rather than abort.
var ErrTranscription = errors.New("transcription error")

// Transcriber converts an audio file into text.
type Transcriber interface {
	// Transcribe uploads the audio at audioPath and returns the
	// recognized text.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// Close releases any resources held by the transcriber.
	Close() error
}
