// Package inspectcmder provides the inspect command for examining the
// contents of the vector index.
package inspectcmder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/logger"
)

var (
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const inspectLongDesc string = `Inspect the contents of the vector index.

Shows the total number of indexed chunks grouped by source document.
Use --verbose to print every chunk id.

Examples:
  litemind inspect
  litemind inspect --verbose`

const inspectShortDesc string = "Inspect the vector index"

type inspectCommander struct {
	verbose bool
	debug   bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewInspectCmd() *cobra.Command {
	cmder := &inspectCommander{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: inspectShortDesc,
		Long:  inspectLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := pipeline.Load(configDir)
			if err != nil {
				return err
			}
			cmder.cfg = cfg
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

	cmd.Flags().BoolVarP(&cmder.verbose, "verbose", "v", false, "Print every chunk id")

	return cmd
}

func (c *inspectCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	driver, err := pipeline.NewVectorDriver(c.cfg, false, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	entries, err := driver.List(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s chunks indexed %s\n\n",
		countStyle.Render(fmt.Sprintf("%d", len(entries))),
		dimStyle.Render(fmt.Sprintf("(provider: %s)", c.cfg.VectorStore.Provider)),
	)

	bySource := map[string][]string{}
	for _, entry := range entries {
		source := entry.Metadata["source"]
		if source == "" {
			source = "(unknown)"
		}
		bySource[source] = append(bySource[source], entry.ID)
	}

	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		ids := bySource[source]
		fmt.Printf("  %s %s\n",
			sourceStyle.Render(source),
			dimStyle.Render(fmt.Sprintf("(%d chunks)", len(ids))),
		)
		if c.verbose {
			sort.Strings(ids)
			fmt.Printf("    %s\n", dimStyle.Render(strings.Join(ids, "\n    ")))
		}
	}
	fmt.Println()

	return nil
}
