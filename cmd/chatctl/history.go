package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gwi.com/windtone-assistant/internal/store"
)

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the stored conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprint(cmd.OutOrStdout(), renderHistory(a.Chat.History()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func renderHistory(conv store.Conversation) string {
	if len(conv) == 0 {
		return metaStyle.Render("No messages yet.") + "\n"
	}
	var b strings.Builder
	for i, turn := range conv {
		b.WriteString(renderTurn(turn, conv.VoiceEnabled(i)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderTurn(turn store.Turn, voiceEnabled bool) string {
	label := userStyle.Render("You")
	if turn.Sender == store.SenderAssistant {
		label = assistantStyle.Render("Assistant")
	}

	meta := []string{turn.CreatedAt.Format("2006-01-02 15:04:05"), turn.ID}
	if turn.Spoken {
		meta = append(meta, "dictated")
	}
	if voiceEnabled {
		meta = append(meta, "audio available")
	}

	var b strings.Builder
	b.WriteString(label + " " + metaStyle.Render(strings.Join(meta, " · ")))
	for _, att := range turn.Attachments {
		b.WriteString("\n" + metaStyle.Render(fmt.Sprintf("  📎 %s (%d bytes)", att.Name, att.Size)))
	}
	if turn.Text != "" {
		b.WriteString("\n" + turn.Text)
	}
	return b.String()
}
