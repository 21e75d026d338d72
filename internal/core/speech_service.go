package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

const noSpeechText = "Could not recognise any speech."

type Audio struct {
	Data        []byte
	ContentType string
	FileName    string
}

type SpeechConfig struct {
	DefaultVoice       provider.Voice
	SpeechModel        string
	Language           string
	TranscriptionModel string
}

// SpeechService turns stored assistant turns into audio and dictation into text.
// It is outside the ordering contract of the conversation.
type SpeechService struct {
	store *store.ConversationStore
	tts   provider.TextToSpeechProvider
	stt   provider.SpeechToTextProvider
	cfg   SpeechConfig
	now   func() time.Time
}

func NewSpeechService(st *store.ConversationStore, tts provider.TextToSpeechProvider, stt provider.SpeechToTextProvider, cfg SpeechConfig) *SpeechService {
	return &SpeechService{store: st, tts: tts, stt: stt, cfg: cfg, now: time.Now}
}

// Speak synthesizes the text of an assistant turn. Unknown voices fall back to the default.
func (s *SpeechService) Speak(ctx context.Context, turnID, voice string) (Audio, error) {
	if s.tts == nil {
		return Audio{}, ErrNoSpeechEngine
	}
	conv := s.store.Snapshot()
	i := conv.Find(turnID)
	if i < 0 {
		return Audio{}, ErrTurnNotFound
	}
	turn := conv[i]
	if turn.Sender != store.SenderAssistant || strings.TrimSpace(turn.Text) == "" {
		return Audio{}, ErrNotSpeakable
	}

	selected := provider.ParseVoice(voice, s.cfg.DefaultVoice)
	log.Printf("SpeechService: generating audio for turn %s, length %d, voice %s", turn.ID, len(turn.Text), selected)
	data, err := s.tts.Synthesize(ctx, provider.SpeechRequest{
		Text:  turn.Text,
		Voice: selected,
		Model: s.cfg.SpeechModel,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return Audio{
		Data:        data,
		ContentType: "audio/mpeg",
		FileName:    fmt.Sprintf("audio-%d.mp3", s.now().UnixMilli()),
	}, nil
}

// Transcribe converts a standalone audio or video recording to text.
func (s *SpeechService) Transcribe(ctx context.Context, f File) (string, error) {
	if kind := Classify(f); kind != KindAudio && kind != KindVideo {
		return "", ErrNotAudio
	}
	if s.stt == nil {
		return "", ErrNoSpeechEngine
	}
	data, err := f.readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	transcript, err := s.stt.Transcribe(ctx, provider.TranscriptionRequest{
		FileName:  f.Name,
		MediaType: baseMediaType(f.MediaType),
		Data:      data,
		Language:  s.cfg.Language,
		Model:     s.cfg.TranscriptionModel,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		return noSpeechText, nil
	}
	return transcript, nil
}
