// Package pipeline builds the assistant's collaborators (embedder,
// vector driver, generator, transcriber) from persistent configuration.
// It keeps the individual cobra commands free of wiring boilerplate.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/embeddings"
	embeddingutils "github.com/litemindhq/litemind/pkg/embeddings/utils"
	"github.com/litemindhq/litemind/pkg/llm"
	llmollama "github.com/litemindhq/litemind/pkg/llm/ollama"
	"github.com/litemindhq/litemind/pkg/stt"
	"github.com/litemindhq/litemind/pkg/stt/whisper"
	"github.com/litemindhq/litemind/pkg/vector"
	vectorutils "github.com/litemindhq/litemind/pkg/vector/utils"
)

// Load resolves and loads the persistent configuration from the given
// directory override.
func Load(configDir string) (*config.Config, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// NewEmbedder builds the configured embedding client.
func NewEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	return embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
}

// NewVectorDriver builds the configured vector store driver.
// createIfMissing is set on the ingestion path; query paths leave it
// false so a missing index surfaces as vector.ErrNotFound.
func NewVectorDriver(cfg *config.Config, createIfMissing bool, logger *zap.Logger) (vector.Driver, error) {
	return vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType:    cfg.VectorStore.Provider,
		TargetURL:       cfg.VectorStore.Target,
		DBPath:          cfg.VectorStore.Path,
		Collection:      cfg.VectorStore.Collection,
		Dimensions:      cfg.Embedding.Dimensions,
		CreateIfMissing: createIfMissing,
		Logger:          logger,
	})
}

// NewGenerator builds the configured generation client.
func NewGenerator(cfg *config.Config, logger *zap.Logger) (llm.Generator, error) {
	return llmollama.NewGenerator(llmollama.GeneratorConfig{
		BaseURL:    cfg.Generation.Target,
		Model:      cfg.Generation.Model,
		Timeout:    time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Generation.MaxRetries,
		RetryDelay: time.Duration(cfg.Generation.RetryDelayMS) * time.Millisecond,
	}, logger)
}

// NewTranscriber builds the configured speech-to-text client.
func NewTranscriber(cfg *config.Config) (stt.Transcriber, error) {
	return whisper.NewTranscriber(whisper.Config{
		BaseURL: cfg.STT.Target,
	})
}
