package store

import (
	"time"

	"github.com/google/uuid"
)

// HistoryKey is the storage key holding the whole serialized conversation.
const HistoryKey = "chat_history"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderAssistant:
		return true
	}
	return false
}

// Attachment is the metadata of a file that survives after its turn is committed.
type Attachment struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

type Turn struct {
	ID          string       `json:"id" yaml:"id"`
	Sender      Sender       `json:"sender" yaml:"sender"`
	Text        string       `json:"text" yaml:"text"`
	Attachments []Attachment `json:"attachments" yaml:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"created_at"`
	Spoken      bool         `json:"spoken" yaml:"spoken"`
}

// Conversation is ordered oldest first.
type Conversation []Turn

// NewTurn assigns a fresh id; ids are never reused.
func NewTurn(sender Sender, text string, attachments []Attachment, at time.Time) Turn {
	if attachments == nil {
		attachments = []Attachment{}
	}
	return Turn{
		ID:          uuid.NewString(),
		Sender:      sender,
		Text:        text,
		Attachments: attachments,
		CreatedAt:   at,
	}
}

// Find returns the index of the turn with the given id, or -1.
func (c Conversation) Find(id string) int {
	for i, t := range c {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// VoiceEnabled reports whether the assistant turn at index i should be offered as audio.
// It is enabled when the closest preceding user turn asked for a spoken reply.
func (c Conversation) VoiceEnabled(i int) bool {
	if i < 0 || i >= len(c) || c[i].Sender != SenderAssistant {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		if c[j].Sender == SenderUser {
			return c[j].Spoken
		}
	}
	return false
}
