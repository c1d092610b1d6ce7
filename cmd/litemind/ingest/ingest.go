// Package ingestcmder provides the ingest command for loading documents
// into the vector index.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/cliui"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/ingest"
	"github.com/litemindhq/litemind/pkg/logger"
)

var (
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const ingestLongDesc string = `Index a directory of documents into the vector store.

Each file is extracted, split into overlapping chunks, embedded, and
upserted into the configured vector store. Re-running over the same
directory overwrites the same entries, so ingestion is safe to repeat.

Supported formats: .pdf, .docx, .txt, .md, .csv, .xls, .xlsx.
Hidden files and filesystem artifacts (Thumbs.db, Zone.Identifier
streams) are skipped.

Use --watch to keep running and re-index whenever files change.

Examples:
  litemind ingest ./docs
  litemind ingest ./docs --chunk-size 800 --chunk-overlap 80
  litemind ingest ./docs --watch`

const ingestShortDesc string = "Index a directory of documents"

type ingestCommander struct {
	dir          string
	chunkSize    int
	chunkOverlap int
	watch        bool
	debug        bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := pipeline.Load(configDir)
			if err != nil {
				return err
			}
			cmder.cfg = cfg

			if !cmd.Flags().Changed("chunk-size") {
				cmder.chunkSize = cfg.Ingest.ChunkSize
			}
			if !cmd.Flags().Changed("chunk-overlap") {
				cmder.chunkOverlap = cfg.Ingest.ChunkOverlap
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.dir = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVar(&cmder.chunkSize, "chunk-size", defaults.Ingest.ChunkSize, "Chunk window size in characters")
	cmd.Flags().IntVar(&cmder.chunkOverlap, "chunk-overlap", defaults.Ingest.ChunkOverlap, "Chunk window overlap in characters")
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Keep running and re-index on file changes")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	embedder, err := pipeline.NewEmbedder(c.cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	driver, err := pipeline.NewVectorDriver(c.cfg, true, c.logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	ingestor, err := ingest.NewIngestor(embedder, driver, ingest.Config{
		ChunkSize:    c.chunkSize,
		ChunkOverlap: c.chunkOverlap,
	}, c.logger)
	if err != nil {
		return err
	}

	if c.watch {
		return c.runWatch(ctx, ingestor)
	}

	var report *ingest.Report
	if err := cliui.Step(os.Stdout, fmt.Sprintf("Indexing %s", c.dir), func() error {
		var runErr error
		report, runErr = ingestor.Run(ctx, c.dir)
		return runErr
	}); err != nil {
		return err
	}

	c.printReport(report)
	return nil
}

func (c *ingestCommander) runWatch(ctx context.Context, ingestor *ingest.Ingestor) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := ingest.NewWatcher(ingestor, c.dir, 2*time.Second, c.logger)

	fmt.Printf("\n  %s Watching %s %s\n\n",
		cliui.SuccessMark,
		countStyle.Render(c.dir),
		dimStyle.Render("(Ctrl+C to stop)"),
	)

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (c *ingestCommander) printReport(report *ingest.Report) {
	fmt.Printf("\n  %s Indexed %s files %s\n",
		cliui.SuccessMark,
		countStyle.Render(fmt.Sprintf("%d", report.Processed)),
		dimStyle.Render(fmt.Sprintf("(%d skipped, %d failed)", report.Skipped, report.Failed)),
	)

	for _, file := range report.Files {
		switch file.Status {
		case ingest.StatusProcessed:
			fmt.Printf("    %s %s %s\n",
				cliui.SuccessMark,
				file.Name,
				dimStyle.Render(fmt.Sprintf("(%d chunks)", file.Chunks)),
			)
		case ingest.StatusFailed:
			fmt.Printf("    %s %s %s\n",
				cliui.FailMark,
				file.Name,
				failStyle.Render(file.Reason),
			)
		case ingest.StatusSkipped:
			fmt.Printf("    %s %s\n",
				dimStyle.Render("-"),
				dimStyle.Render(fmt.Sprintf("%s (%s)", file.Name, file.Reason)),
			)
		}
	}
	fmt.Println()
}
