// Package prompt assembles retrieved context and conversation history
// into a single generation prompt.
package prompt

import (
	"fmt"
	"strings"

	"github.com/litemindhq/litemind/pkg/session"
)

const (
	// systemPreamble frames the assistant's role at the top of every
	// prompt.
	systemPreamble = "You are a helpful contact center assistant."

	// contextSeparator sits between retrieved chunks so the model can
	// tell them apart.
	contextSeparator = "\n---\n"
)

// Assemble builds the generation prompt from retrieved context chunks,
// prior conversation turns and the current query. Only the most recent
// maxHistoryTurns turns are included; the query itself always appears
// verbatim as the final user line.
func Assemble(contextTexts []string, history []session.Turn, query string, maxHistoryTurns int) string {
	var b strings.Builder

	b.WriteString(systemPreamble)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(contextTexts, contextSeparator))
	b.WriteString("\n\nConversation so far:\n")

	if maxHistoryTurns > 0 && len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
	}

	fmt.Fprintf(&b, "User: %s\nAssistant:", query)

	return b.String()
}
