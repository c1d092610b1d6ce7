package config

const (
	defaultOllamaTarget = "http://localhost:11434"

	defaultVectorProvider   = "sqlite"
	defaultVectorCollection = "agent_assist_docs"

	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultGenerationModel   = "tinyllama"
	defaultGenerationTimeout = 60
	defaultMaxRetries        = 1
	defaultRetryDelayMS      = 500

	defaultChunkSize    = 500
	defaultChunkOverlap = 50

	defaultTopK            = 5
	defaultMaxHistoryTurns = 6

	defaultAPIListen = ":8081"

	defaultSTTTarget = "http://localhost:8580"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Target:     defaultOllamaTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generation: GenerationConfig{
			Target:         defaultOllamaTarget,
			Model:          defaultGenerationModel,
			TimeoutSeconds: defaultGenerationTimeout,
			MaxRetries:     defaultMaxRetries,
			RetryDelayMS:   defaultRetryDelayMS,
		},
		Ingest: IngestConfig{
			ChunkSize:    defaultChunkSize,
			ChunkOverlap: defaultChunkOverlap,
		},
		Chat: ChatConfig{
			TopK:            defaultTopK,
			MaxHistoryTurns: defaultMaxHistoryTurns,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		STT: STTConfig{
			Target: defaultSTTTarget,
		},
	}
}
