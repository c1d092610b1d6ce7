package api

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/rag"
)

// Server is the API server for the litemind assistant.
type Server struct {
	config    Config
	logger    *zap.Logger
	app       *fiber.App
	retriever *rag.Retriever

	mu      sync.Mutex
	engines map[string]*rag.Engine
}

// NewServer creates a new API server. Collaborators come in through the
// config so callers can share them with other components.
func NewServer(config Config, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		logger:  logger,
		app:     app,
		engines: make(map[string]*rag.Engine),
	}

	if config.Embedder != nil && config.VectorDriver != nil {
		s.retriever = rag.NewRetriever(config.Embedder, config.VectorDriver, logger)
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/search", s.handleSearch)
	app.Get("/v1/entries", s.handleEntries)
	app.Post("/v1/ask", s.handleAsk)
	app.Post("/v1/ingest", s.handleIngest)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
