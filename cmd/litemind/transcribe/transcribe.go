// Package transcribecmder provides the transcribe command for turning
// call audio into text, optionally asking the assistant about it.
package transcribecmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/cmd/litemind/pipeline"
	"github.com/litemindhq/litemind/pkg/cliui"
	"github.com/litemindhq/litemind/pkg/config"
	"github.com/litemindhq/litemind/pkg/logger"
	"github.com/litemindhq/litemind/pkg/rag"
	"github.com/litemindhq/litemind/pkg/session"
)

const transcribeLongDesc string = `Transcribe a call recording using the configured speech-to-text server.

Prints the transcript to stdout. With --ask, the transcript is sent to
the assistant as a grounded question and the answer is printed instead.

Examples:
  litemind transcribe ./call.wav
  litemind transcribe ./call.wav --ask
  litemind transcribe ./call.wav --stt-target http://localhost:8580`

const transcribeShortDesc string = "Transcribe a call recording"

type transcribeCommander struct {
	audioPath string
	sttTarget string
	ask       bool
	debug     bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewTranscribeCmd() *cobra.Command {
	cmder := &transcribeCommander{}

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: transcribeShortDesc,
		Long:  transcribeLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := pipeline.Load(configDir)
			if err != nil {
				return err
			}
			cmder.cfg = cfg

			if cmd.Flags().Changed("stt-target") {
				cmder.cfg.STT.Target = cmder.sttTarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.audioPath = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVar(&cmder.sttTarget, "stt-target", defaults.STT.Target, "Speech-to-text server URL")
	cmd.Flags().BoolVar(&cmder.ask, "ask", false, "Send the transcript to the assistant as a question")

	return cmd
}

func (c *transcribeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	transcriber, err := pipeline.NewTranscriber(c.cfg)
	if err != nil {
		return err
	}
	defer transcriber.Close()

	var transcript string
	if err := cliui.Step(os.Stdout, fmt.Sprintf("Transcribing %s", c.audioPath), func() error {
		var transcribeErr error
		transcript, transcribeErr = transcriber.Transcribe(ctx, c.audioPath)
		return transcribeErr
	}); err != nil {
		// A failed transcription degrades to an empty transcript so
		// agents still get a usable prompt to edit.
		c.logger.Warn("transcription failed", zap.Error(err))
		transcript = ""
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No transcript recognized."))
		return nil
	}

	if !c.ask {
		fmt.Printf("\n%s\n", transcript)
		return nil
	}

	return c.askAssistant(ctx, transcript)
}

func (c *transcribeCommander) askAssistant(ctx context.Context, transcript string) error {
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

	retriever := rag.NewRetriever(embedder, driver, c.logger)
	engine := rag.NewEngine(retriever, generator, session.New(), rag.EngineConfig{
		TopK:            c.cfg.Chat.TopK,
		MaxHistoryTurns: c.cfg.Chat.MaxHistoryTurns,
	}, c.logger)

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("Transcript:"),
		cliui.DimStyle.Render(transcript),
	)

	answer := engine.Ask(ctx, transcript)
	fmt.Println()
	fmt.Println(cliui.RenderAnswer(answer.Text))

	return nil
}
