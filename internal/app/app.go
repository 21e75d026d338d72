// Package app wires configuration, storage, providers and services together.
package app

import (
	"context"
	"fmt"
	"log"

	"gwi.com/windtone-assistant/internal/config"
	"gwi.com/windtone-assistant/internal/core"
	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

type App struct {
	Config config.Config
	Store  *store.ConversationStore
	Chat   *core.ChatService
	Speech *core.SpeechService

	blob   store.Blob
	gemini *provider.Gemini
}

// New opens storage, restores the persisted conversation and builds the services.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	blob, err := store.Open(cfg.StorageBackend, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}

	a := &App{Config: cfg, blob: blob}

	openAI := provider.NewOpenAI(provider.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIURL})
	if cfg.CompletionBackend == config.BackendGemini || cfg.TranscriptionBackend == config.BackendGemini {
		a.gemini, err = provider.NewGemini(ctx, provider.GeminiConfig{APIKey: cfg.GeminiAPIKey})
		if err != nil {
			blob.Close()
			return nil, err
		}
	}

	var completion provider.CompletionProvider = openAI
	chatModel := cfg.ChatModel
	if cfg.CompletionBackend == config.BackendGemini {
		completion = a.gemini
		chatModel = cfg.GeminiModel
	}
	var stt provider.SpeechToTextProvider = openAI
	transcriptionModel := cfg.TranscriptionModel
	if cfg.TranscriptionBackend == config.BackendGemini {
		stt = a.gemini
		transcriptionModel = cfg.GeminiModel
	}

	a.Store = store.NewConversationStore(blob, store.DefaultDedupWindow)
	extractor := core.NewExtractor(stt, cfg.TranscriptionLanguage, transcriptionModel)
	orchestrator := core.NewOrchestrator(a.Store, completion, core.OrchestratorConfig{
		Model:       chatModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		MaxFileSize: cfg.MaxFileSizeBytes,
	})
	a.Chat = core.NewChatService(a.Store, core.NewAssembler(extractor), orchestrator)
	a.Speech = core.NewSpeechService(a.Store, openAI, stt, core.SpeechConfig{
		DefaultVoice:       provider.ParseVoice(cfg.DefaultVoice, provider.VoiceAlloy),
		SpeechModel:        cfg.SpeechModel,
		Language:           cfg.TranscriptionLanguage,
		TranscriptionModel: transcriptionModel,
	})

	turns, err := a.Chat.Load(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	log.Printf("Loaded %d turns from %s storage (completion: %s/%s, transcription: %s/%s)",
		len(turns), cfg.StorageBackend, cfg.CompletionBackend, chatModel, cfg.TranscriptionBackend, transcriptionModel)
	return a, nil
}

// Close waits for in-flight submissions and releases providers and storage.
func (a *App) Close() {
	if a.Chat != nil {
		a.Chat.Wait()
	}
	if a.gemini != nil {
		a.gemini.Close()
	}
	if err := a.blob.Close(); err != nil {
		log.Printf("Error closing storage: %v", err)
	}
}
