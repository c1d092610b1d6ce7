// Package servecmder provides the serve command for running the
// litemind HTTP API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/api"
	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/ingest"
	"github.com/litemindhq/litemind/pkg/logger"
)

const serveLongDesc string = `Run the litemind HTTP API server.

Exposes the assistant over HTTP:
  GET  /ping          Health check
  GET  /v1/search     Semantic search over indexed chunks
  POST /v1/ask        Grounded question answering with sessions
  POST /v1/ingest     Index a directory of documents
  GET  /v1/entries    Dump the index contents

Configuration is layered: flags override LITEMIND_* environment
variables, which override config.toml, which overrides defaults.

Examples:
  litemind serve
  litemind serve --listen :9090
  LITEMIND_GENERATION_MODEL=llama3 litemind serve`

const serveShortDesc string = "Run the litemind API server"

type serveCommander struct {
	listen string
	debug  bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			cmder.cfg = configFromViper(v)

			// The derived sqlite path lives with the resolved dotdir,
			// which viper doesn't know about.
			if cmder.cfg.VectorStore.Path == "" {
				base, err := pipeline.Load(configDir)
				if err != nil {
					return err
				}
				cmder.cfg.VectorStore.Path = base.VectorStore.Path
			}

			if !cmd.Flags().Changed("listen") {
				cmder.listen = cmder.cfg.API.Listen
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.API.Listen, "Address for the API server to listen on")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	embedder, err := pipeline.NewEmbedder(c.cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	// The server exposes /v1/ingest, so a missing index is created on
	// startup rather than treated as an error.
	driver, err := pipeline.NewVectorDriver(c.cfg, true, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	generator, err := pipeline.NewGenerator(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer generator.Close()

	ingestor, err := ingest.NewIngestor(embedder, driver, ingest.Config{
		ChunkSize:    c.cfg.Ingest.ChunkSize,
		ChunkOverlap: c.cfg.Ingest.ChunkOverlap,
	}, c.logger)
	if err != nil {
		return err
	}

	server := api.NewServer(api.Config{
		ListenAddr:      c.listen,
		Embedder:        embedder,
		VectorDriver:    driver,
		Generator:       generator,
		Ingestor:        ingestor,
		TopK:            c.cfg.Chat.TopK,
		MaxHistoryTurns: c.cfg.Chat.MaxHistoryTurns,
	}, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("api server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

// configFromViper materializes a Config from the layered viper state so
// LITEMIND_* environment variables can override config.toml for the
// server process.
func configFromViper(v *viper.Viper) *config.Config {
	return &config.Config{
		Version: v.GetInt("version"),
		VectorStore: config.VectorStoreConfig{
			Provider:   v.GetString("vector_store.provider"),
			Target:     v.GetString("vector_store.target"),
			Collection: v.GetString("vector_store.collection"),
			Path:       v.GetString("vector_store.path"),
		},
		Embedding: config.EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		Generation: config.GenerationConfig{
			Target:         v.GetString("generation.target"),
			Model:          v.GetString("generation.model"),
			TimeoutSeconds: v.GetInt("generation.timeout_seconds"),
			MaxRetries:     v.GetInt("generation.max_retries"),
			RetryDelayMS:   v.GetInt("generation.retry_delay_ms"),
		},
		Ingest: config.IngestConfig{
			ChunkSize:    v.GetInt("ingest.chunk_size"),
			ChunkOverlap: v.GetInt("ingest.chunk_overlap"),
		},
		Chat: config.ChatConfig{
			TopK:            v.GetInt("chat.top_k"),
			MaxHistoryTurns: v.GetInt("chat.max_history_turns"),
		},
		API: config.APIConfig{
			Listen: v.GetString("api.listen"),
		},
		STT: config.STTConfig{
			Target: v.GetString("stt.target"),
		},
	}
}
