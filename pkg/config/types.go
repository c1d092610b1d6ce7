package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent litemind configuration stored as
// config.toml in the .litemind/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Generation  GenerationConfig  `toml:"generation"`
	Ingest      IngestConfig      `toml:"ingest"`
	Chat        ChatConfig        `toml:"chat"`
	API         APIConfig         `toml:"api"`
	STT         STTConfig         `toml:"stt"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
	Path       string `toml:"path,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// GenerationConfig holds generation (LLM completion) settings.
type GenerationConfig struct {
	Target         string `toml:"target,omitempty"`
	Model          string `toml:"model,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
	MaxRetries     int    `toml:"max_retries,omitempty"`
	RetryDelayMS   int    `toml:"retry_delay_ms,omitempty"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	ChunkSize    int `toml:"chunk_size,omitempty"`
	ChunkOverlap int `toml:"chunk_overlap,omitempty"`
}

// ChatConfig holds per-turn chat settings.
type ChatConfig struct {
	TopK            int `toml:"top_k,omitempty"`
	MaxHistoryTurns int `toml:"max_history_turns,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// STTConfig holds speech-to-text settings.
type STTConfig struct {
	Target string `toml:"target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.collection": {
		get: func(c *Config) string { return c.VectorStore.Collection },
		set: func(c *Config, v string) error { c.VectorStore.Collection = v; return nil },
	},
	"vector_store.path": {
		get: func(c *Config) string { return c.VectorStore.Path },
		set: func(c *Config, v string) error { c.VectorStore.Path = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"generation.target": {
		get: func(c *Config) string { return c.Generation.Target },
		set: func(c *Config, v string) error { c.Generation.Target = v; return nil },
	},
	"generation.model": {
		get: func(c *Config) string { return c.Generation.Model },
		set: func(c *Config, v string) error { c.Generation.Model = v; return nil },
	},
	"generation.timeout_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Generation.TimeoutSeconds) },
		set: func(c *Config, v string) error { return setInt(&c.Generation.TimeoutSeconds, "generation.timeout_seconds", v) },
	},
	"generation.max_retries": {
		get: func(c *Config) string { return strconv.Itoa(c.Generation.MaxRetries) },
		set: func(c *Config, v string) error { return setInt(&c.Generation.MaxRetries, "generation.max_retries", v) },
	},
	"generation.retry_delay_ms": {
		get: func(c *Config) string { return strconv.Itoa(c.Generation.RetryDelayMS) },
		set: func(c *Config, v string) error { return setInt(&c.Generation.RetryDelayMS, "generation.retry_delay_ms", v) },
	},
	"ingest.chunk_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Ingest.ChunkSize) },
		set: func(c *Config, v string) error { return setInt(&c.Ingest.ChunkSize, "ingest.chunk_size", v) },
	},
	"ingest.chunk_overlap": {
		get: func(c *Config) string { return strconv.Itoa(c.Ingest.ChunkOverlap) },
		set: func(c *Config, v string) error { return setInt(&c.Ingest.ChunkOverlap, "ingest.chunk_overlap", v) },
	},
	"chat.top_k": {
		get: func(c *Config) string { return strconv.Itoa(c.Chat.TopK) },
		set: func(c *Config, v string) error { return setInt(&c.Chat.TopK, "chat.top_k", v) },
	},
	"chat.max_history_turns": {
		get: func(c *Config) string { return strconv.Itoa(c.Chat.MaxHistoryTurns) },
		set: func(c *Config, v string) error { return setInt(&c.Chat.MaxHistoryTurns, "chat.max_history_turns", v) },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"stt.target": {
		get: func(c *Config) string { return c.STT.Target },
		set: func(c *Config, v string) error { c.STT.Target = v; return nil },
	},
}

func setInt(target *int, key, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = n
	return nil
}
