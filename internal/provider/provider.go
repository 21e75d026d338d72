//go:generate go run go.uber.org/mock/mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks
package provider

import (
	"context"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// CompletionProvider turns an ordered message sequence into generated text in a single call.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type TranscriptionRequest struct {
	FileName  string
	MediaType string
	Data      []byte
	Language  string
	Model     string
}

// SpeechToTextProvider transcribes one audio or video payload.
type SpeechToTextProvider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

type SpeechRequest struct {
	Text  string
	Voice Voice
	Model string
}

// TextToSpeechProvider synthesizes mp3 audio for a piece of text.
type TextToSpeechProvider interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}
