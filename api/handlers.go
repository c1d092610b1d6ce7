package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/litemindhq/litemind/pkg/rag"
	"github.com/litemindhq/litemind/pkg/session"
	"github.com/litemindhq/litemind/pkg/vector"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResult is one retrieved chunk in a search response.
type SearchResult struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Distance float32           `json:"distance"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// AskResponse is the body of POST /v1/ask.
type AskResponse struct {
	Answer    string         `json:"answer"`
	Context   []SearchResult `json:"context"`
	SessionID string         `json:"session_id"`
}

// IngestRequest is the body of POST /v1/ingest.
type IngestRequest struct {
	Dir string `json:"dir"`
}

// EntriesResponse is the body of GET /v1/entries.
type EntriesResponse struct {
	Count   int            `json:"count"`
	Entries []vector.Entry `json:"entries"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	if s.retriever == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "search is not configured: vector driver and embedder are required",
		})
	}

	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	topK := s.config.TopK
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	results, err := s.retriever.Retrieve(c.Context(), query, topK)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: searchResults(results),
	})
}

// handleAsk handles POST /v1/ask requests. Conversations are keyed by
// session id; an absent id starts a fresh session.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	if s.retriever == nil || s.config.Generator == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "ask is not configured: vector driver, embedder and generator are required",
		})
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query is required",
		})
	}

	engine := s.engineFor(req.SessionID)
	answer := engine.Ask(c.Context(), req.Query)

	return c.JSON(AskResponse{
		Answer:    answer.Text,
		Context:   searchResults(answer.Context),
		SessionID: engine.Session().ID(),
	})
}

// handleIngest handles POST /v1/ingest requests.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	if s.config.Ingestor == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "ingestion is not configured",
		})
	}

	var req IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if req.Dir == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "dir is required",
		})
	}

	report, err := s.config.Ingestor.Run(c.Context(), req.Dir)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(report)
}

// handleEntries handles GET /v1/entries requests.
func (s *Server) handleEntries(c *fiber.Ctx) error {
	if s.config.VectorDriver == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "entries is not configured: vector driver is required",
		})
	}

	entries, err := s.config.VectorDriver.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(EntriesResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

// engineFor returns the engine bound to the given session id, creating
// one (with a fresh session when id is empty) on first use.
func (s *Server) engineFor(id string) *rag.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if engine, ok := s.engines[id]; ok {
			return engine
		}
	}

	sess := session.NewWithID(id)
	engine := rag.NewEngine(s.retriever, s.config.Generator, sess, rag.EngineConfig{
		TopK:            s.config.TopK,
		MaxHistoryTurns: s.config.MaxHistoryTurns,
	}, s.logger)
	s.engines[sess.ID()] = engine

	return engine
}

func searchResults(results []vector.Result) []SearchResult {
	out := make([]SearchResult, len(results))
	for i, result := range results {
		out[i] = SearchResult{
			ID:       result.ID,
			Text:     result.Text,
			Distance: result.Distance,
			Metadata: result.Metadata,
		}
	}
	return out
}
