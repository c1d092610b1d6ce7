// Package configcmder provides the config command for managing
// persistent litemind configuration stored in the .litemind/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent litemind configuration.

Configuration is stored as config.toml in the .litemind/ directory and
provides default values for command flags. CLI flags always take
precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  vector_store.provider, vector_store.target, vector_store.collection,
  vector_store.path,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  generation.target, generation.model, generation.timeout_seconds,
  generation.max_retries, generation.retry_delay_ms,
  ingest.chunk_size, ingest.chunk_overlap,
  chat.top_k, chat.max_history_turns,
  api.listen, stt.target

Use subcommands to get, set, or list configuration values:
  litemind config set <key> <value>    Set a configuration value
  litemind config get <key>            Get a configuration value
  litemind config list                 List all configuration values

Examples:
  litemind config set vector_store.provider qdrant
  litemind config set embedding.model nomic-embed-text
  litemind config get generation.model
  litemind config list`

const configShortDesc string = "Manage persistent litemind configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
