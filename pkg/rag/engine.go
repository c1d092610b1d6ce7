package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/llm"
	"github.com/litemindhq/litemind/pkg/prompt"
	"github.com/litemindhq/litemind/pkg/session"
	"github.com/litemindhq/litemind/pkg/vector"
)

const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 5

	// DefaultMaxHistoryTurns bounds how much conversation history goes
	// into the prompt.
	DefaultMaxHistoryTurns = 6
)

// Answer is the outcome of a single Ask turn.
type Answer struct {
	// Text is the assistant's reply. Failed turns carry an "[error]"
	// prefixed explanation instead of a completion.
	Text string

	// Context holds the retrieved chunks the answer was grounded on.
	Context []vector.Result
}

// EngineConfig holds tunables for the question answering flow.
type EngineConfig struct {
	// TopK is the number of chunks retrieved per question. Defaults to
	// DefaultTopK if zero.
	TopK int

	// MaxHistoryTurns bounds how many prior turns are included in the
	// prompt. Defaults to DefaultMaxHistoryTurns if zero.
	MaxHistoryTurns int
}

// Engine runs the retrieve, assemble, generate, update loop for one
// conversation.
type Engine struct {
	retriever *Retriever
	generator llm.Generator
	sess      *session.Session
	topK      int
	maxTurns  int
	logger    *zap.Logger
}

// NewEngine creates an engine bound to the given session.
func NewEngine(retriever *Retriever, generator llm.Generator, sess *session.Session, cfg EngineConfig, logger *zap.Logger) *Engine {
	topK := cfg.TopK
	if topK == 0 {
		topK = DefaultTopK
	}

	maxTurns := cfg.MaxHistoryTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxHistoryTurns
	}

	return &Engine{
		retriever: retriever,
		generator: generator,
		sess:      sess,
		topK:      topK,
		maxTurns:  maxTurns,
		logger:    logger,
	}
}

// Session returns the conversation this engine appends to.
func (e *Engine) Session() *session.Session {
	return e.sess
}

// Ask answers one question. History read for the prompt excludes the
// current question; afterwards the session grows by exactly two turns,
// whether the turn succeeded or failed. Failures never propagate, they
// become a visible "[error]" assistant turn.
func (e *Engine) Ask(ctx context.Context, query string) Answer {
	history := e.sess.Turns()

	answer := e.answer(ctx, history, query)

	e.sess.Append(session.RoleUser, query)
	e.sess.Append(session.RoleAssistant, answer.Text)

	return answer
}

func (e *Engine) answer(ctx context.Context, history []session.Turn, query string) Answer {
	results, err := e.retriever.Retrieve(ctx, query, e.topK)
	if err != nil {
		e.logger.Warn("retrieval failed", zap.Error(err))
		return Answer{Text: fmt.Sprintf("[error] %v", err)}
	}

	contextTexts := make([]string, len(results))
	for i, result := range results {
		contextTexts[i] = result.Text
	}

	p := prompt.Assemble(contextTexts, history, query, e.maxTurns)

	text, err := e.generator.Generate(ctx, p)
	if err != nil {
		e.logger.Warn("generation failed", zap.Error(err))
		return Answer{Text: fmt.Sprintf("[error] %v", err), Context: results}
	}

	return Answer{Text: text, Context: results}
}
