// Package askcmder provides the ask command for one-shot grounded
// questions.
package askcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/cliui"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/logger"
	"github.com/litemindhq/litemind/pkg/rag"
	"github.com/litemindhq/litemind/pkg/session"
)

const askLongDesc string = `Ask a single question grounded on the indexed documents.

The question is embedded, the nearest chunks are retrieved from the
vector store, and the answer is generated from them. Requires a prior
"litemind ingest" run.

Examples:
  litemind ask "what is the refund policy?"
  litemind ask "how do I reset a customer password?" --top 10`

const askShortDesc string = "Ask a one-shot grounded question"

type askCommander struct {
	query   string
	topK    int
	sources bool
	debug   bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := pipeline.Load(configDir)
			if err != nil {
				return err
			}
			cmder.cfg = cfg

			if !cmd.Flags().Changed("top") {
				cmder.topK = cfg.Chat.TopK
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Chat.TopK, "Number of chunks to retrieve")
	cmd.Flags().BoolVar(&cmder.sources, "sources", false, "Show the source documents the answer was grounded on")

	return cmd
}

func (c *askCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	engine, cleanup, err := c.newEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	var answer rag.Answer
	if err := cliui.Step(os.Stdout, "Thinking", func() error {
		answer = engine.Ask(ctx, c.query)
		return nil
	}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cliui.RenderAnswer(answer.Text))

	if c.sources {
		sources := make([]string, 0, len(answer.Context))
		seen := map[string]bool{}
		for _, result := range answer.Context {
			source := result.Metadata["source"]
			if source == "" || seen[source] {
				continue
			}
			seen[source] = true
			sources = append(sources, source)
		}
		if line := cliui.SourceLine(sources); line != "" {
			fmt.Printf("  %s\n\n", line)
		}
	}

	return nil
}

func (c *askCommander) newEngine() (*rag.Engine, func(), error) {
	embedder, err := pipeline.NewEmbedder(c.cfg)
	if err != nil {
		return nil, nil, err
	}

	driver, err := pipeline.NewVectorDriver(c.cfg, false, c.logger)
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	generator, err := pipeline.NewGenerator(c.cfg, c.logger)
	if err != nil {
		embedder.Close()
		driver.Close()
		return nil, nil, err
	}

	cleanup := func() {
		generator.Close()
		driver.Close()
		embedder.Close()
	}

	retriever := rag.NewRetriever(embedder, driver, c.logger)
	engine := rag.NewEngine(retriever, generator, session.New(), rag.EngineConfig{
		TopK:            c.topK,
		MaxHistoryTurns: c.cfg.Chat.MaxHistoryTurns,
	}, c.logger)

	return engine, cleanup, nil
}
