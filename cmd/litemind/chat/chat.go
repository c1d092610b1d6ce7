// Package chatcmder provides the chat command for an interactive
// grounded conversation.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/cliui"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/logger"
	"github.com/litemindhq/litemind/pkg/rag"
	"github.com/litemindhq/litemind/pkg/session"
)

var (
	userPrompt     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant>")
	modelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const chatLongDesc string = `Start an interactive chat session grounded on the indexed documents.

Every question retrieves the nearest document chunks and answers from
them, carrying recent conversation history into each prompt. Requires a
prior "litemind ingest" run.

In-session commands:
  /reset    Clear the conversation history
  /exit     Quit (Ctrl+D also works)

Examples:
  litemind chat
  litemind chat --top 10`

const chatShortDesc string = "Interactive grounded chat"

type chatCommander struct {
	topK  int
	debug bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
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
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Chat.TopK, "Number of chunks to retrieve per question")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	embedder, err := pipeline.NewEmbedder(c.cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	driver, err := pipeline.NewVectorDriver(c.cfg, false, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	generator, err := pipeline.NewGenerator(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer generator.Close()

	sess := session.New()
	retriever := rag.NewRetriever(embedder, driver, c.logger)
	engine := rag.NewEngine(retriever, generator, sess, rag.EngineConfig{
		TopK:            c.topK,
		MaxHistoryTurns: c.cfg.Chat.MaxHistoryTurns,
	}, c.logger)

	fmt.Println()
	fmt.Printf("  %s %s\n",
		dimStyle.Render("Model:"),
		modelStyle.Render(c.cfg.Generation.Model),
	)
	fmt.Printf("  %s\n\n", dimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}
		if input == "/reset" {
			sess.Reset()
			fmt.Printf("  %s\n\n", dimStyle.Render("History cleared."))
			continue
		}

		answer := engine.Ask(ctx, input)

		fmt.Printf("%s\n%s\n", assistantLabel, cliui.RenderAnswer(answer.Text))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}
