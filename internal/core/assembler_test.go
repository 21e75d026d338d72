package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

func TestFoldFiles(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		blocks []string
		want   string
	}{
		{"no blocks", "hello", nil, "hello"},
		{
			"text and one block", "summarise", []string{"[Contents of file a.txt]:\nA"},
			"summarise\n\n---\n\n\n\n=== BEGIN FILES ===\n\n[Contents of file a.txt]:\nA\n\n=== END FILES ===\n\n",
		},
		{
			"blocks only", "", []string{"one", "two"},
			"\n\n=== BEGIN FILES ===\n\none\n\n---\n\ntwo\n\n=== END FILES ===\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FoldFiles(tt.text, tt.blocks))
		})
	}
}

func TestAssembler_PlainConversation(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	history := store.Conversation{
		store.NewTurn(store.SenderUser, "hi", nil, now),
		store.NewTurn(store.SenderAssistant, "hello there", nil, now),
		store.NewTurn(store.SenderUser, "   ", nil, now),
		store.NewTurn(store.SenderUser, "how are you?", nil, now),
	}
	current := history[3]

	got := NewAssembler(NewExtractor(nil, "", "")).Assemble(context.Background(), current, nil, history)
	req.Equal([]provider.Message{
		{Role: provider.RoleUser, Content: "hi"},
		{Role: provider.RoleAssistant, Content: "hello there"},
		{Role: provider.RoleUser, Content: "how are you?"},
	}, got)
}

func TestAssembler_FilesOnlyTurn(t *testing.T) {
	req := require.New(t)
	current := store.NewTurn(store.SenderUser, "", []store.Attachment{{Name: "a.txt", Size: 1}}, time.Now())
	history := store.Conversation{current}

	files := []File{BytesFile("a.txt", "text/plain", []byte("A"))}
	got := NewAssembler(NewExtractor(nil, "", "")).Assemble(context.Background(), current, files, history)

	req.Len(got, 2)
	req.Equal(provider.Message{Role: provider.RoleSystem, Content: FilesSystemInstruction}, got[0])
	req.Equal(provider.RoleUser, got[1].Role)
	req.Equal(FoldFiles("", []string{"[Contents of file a.txt]:\nA"}), got[1].Content)
	req.Empty(history[0].Text, "stored turn keeps typed text only")
}

func TestAssembler_CurrentTurnMissingFromHistory(t *testing.T) {
	req := require.New(t)
	current := store.NewTurn(store.SenderUser, "late", nil, time.Now())

	got := NewAssembler(NewExtractor(nil, "", "")).Assemble(context.Background(), current, nil, store.Conversation{})
	req.Equal([]provider.Message{{Role: provider.RoleUser, Content: "late"}}, got)
}
