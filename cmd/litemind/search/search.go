// Package searchcmder provides the search command for semantic search
// over the indexed documents.
package searchcmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/logger"
	"github.com/litemindhq/litemind/pkg/rag"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
)

const searchLongDesc string = `Search the indexed documents without generating an answer.

The query is embedded and matched against the vector store; the nearest
chunks are printed with their source document and distance. Lower
distance means a closer match. Requires a prior "litemind ingest" run.

Use --quiet to output only chunk ids, one per line.

Examples:
  litemind search "refund policy"
  litemind search "password reset steps" --top 10
  litemind search "escalation" --quiet`

const searchShortDesc string = "Search the indexed documents"

type searchCommander struct {
	query string
	topK  int
	quiet bool
	debug bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Chat.TopK, "Number of results to return")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only chunk ids, one per line (for piping)")

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
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

	retriever := rag.NewRetriever(embedder, driver, c.logger)
	results, err := retriever.Retrieve(ctx, c.query, c.topK)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, result := range results {
			fmt.Println(result.ID)
		}
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search Results for:"),
		sourceStyle.Render(fmt.Sprintf("%q", c.query)),
	)

	for i, result := range results {
		fmt.Printf("  %s  %s  %s\n",
			rankStyle.Render(fmt.Sprintf("#%d", i+1)),
			scoreStyle.Render(fmt.Sprintf("distance: %.4f", result.Distance)),
			sourceStyle.Render(result.Metadata["source"]),
		)
		fmt.Printf("  %s\n\n", previewStyle.Render(preview(result.Text, 200)))
	}

	return nil
}

// preview flattens whitespace and truncates text for single-result display.
func preview(text string, max int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= max {
		return flat
	}
	return string(runes[:max]) + "..."
}
