package core

import (
	"context"
	"strings"

	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

const (
	blockDelimiter = "\n\n---\n\n"
	filesBegin     = "=== BEGIN FILES ==="
	filesEnd       = "=== END FILES ==="

	FilesSystemInstruction = "You are a helpful AI assistant. The user can send files (text, audio, video). " +
		"You receive the contents of these files inside the user's messages. " +
		"Always analyse and work with the file contents, answer questions about them and process the data they contain. " +
		"For audio and video files you receive the transcribed text: read it and provide the information it contains. " +
		"For text files you receive their full contents: read and analyse them. " +
		"If the user sent only a file without a text message, process the file contents and provide useful information about it."
)

// Assembler builds the exact message sequence submitted for one user turn.
type Assembler struct {
	extractor *Extractor
}

func NewAssembler(extractor *Extractor) *Assembler {
	return &Assembler{extractor: extractor}
}

// Assemble folds the extracted file blocks into the current user turn and maps the
// whole conversation, oldest first, to role-tagged messages. Turns that are blank
// after trimming are skipped. The files instruction is never persisted.
func (a *Assembler) Assemble(ctx context.Context, current store.Turn, files []File, history store.Conversation) []provider.Message {
	content := current.Text
	if len(files) > 0 {
		content = FoldFiles(current.Text, a.extractor.ExtractAll(ctx, files))
	}

	messages := make([]provider.Message, 0, len(history)+2)
	found := false
	for _, turn := range history {
		text := turn.Text
		if turn.ID == current.ID {
			text = content
			found = true
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		messages = append(messages, provider.Message{Role: roleFor(turn.Sender), Content: text})
	}
	if !found && strings.TrimSpace(content) != "" {
		messages = append(messages, provider.Message{Role: roleFor(current.Sender), Content: content})
	}

	if len(files) > 0 && !hasSystemMessage(messages) {
		messages = append([]provider.Message{{Role: provider.RoleSystem, Content: FilesSystemInstruction}}, messages...)
	}
	return messages
}

// FoldFiles appends the file blocks to the typed text between the file markers.
func FoldFiles(text string, blocks []string) string {
	if len(blocks) == 0 {
		return text
	}
	separator := ""
	if text != "" {
		separator = blockDelimiter
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString(separator)
	b.WriteString("\n\n" + filesBegin + "\n\n")
	b.WriteString(strings.Join(blocks, blockDelimiter))
	b.WriteString("\n\n" + filesEnd + "\n\n")
	return b.String()
}

func roleFor(sender store.Sender) provider.Role {
	switch sender {
	case store.SenderAssistant:
		return provider.RoleAssistant
	default:
		return provider.RoleUser
	}
}

func hasSystemMessage(messages []provider.Message) bool {
	for _, m := range messages {
		if m.Role == provider.RoleSystem {
			return true
		}
	}
	return false
}
