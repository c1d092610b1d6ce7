// Package litemindcmder
package litemindcmder

import (
	askcmder "github.com/litemindhq/litemind/cmd/litemind/ask"
	chatcmder "github.com/litemindhq/litemind/cmd/litemind/chat"
	configcmder "github.com/litemindhq/litemind/cmd/litemind/config"
	ingestcmder "github.com/litemindhq/litemind/cmd/litemind/ingest"
	inspectcmder "github.com/litemindhq/litemind/cmd/litemind/inspect"
	searchcmder "github.com/litemindhq/litemind/cmd/litemind/search"
	servecmder "github.com/litemindhq/litemind/cmd/litemind/serve"
	transcribecmder "github.com/litemindhq/litemind/cmd/litemind/transcribe"
	versioncmder "github.com/litemindhq/litemind/cmd/version"
	"github.com/spf13/cobra"
)

const litemindLongDesc string = `Litemind is a retrieval-augmented assistant for contact centers.

Load your knowledge base, then ask questions grounded on it:
  litemind ingest ./docs    Index a directory of documents
  litemind chat             Interactive grounded chat
  litemind ask "..."        One-shot grounded question
  litemind serve            Run the HTTP API server`

const litemindShortDesc string = "Litemind - Grounded Contact Center Assistant"

func NewLitemindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "litemind",
		Short: litemindShortDesc,
		Long:  litemindLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing the .litemind config directory")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(inspectcmder.NewInspectCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(transcribecmder.NewTranscribeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
