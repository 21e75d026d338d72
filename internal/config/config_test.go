package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Parse()
	req.NoError(err)
	req.Equal(BackendOpenAI, cfg.CompletionBackend)
	req.Equal("gpt-3.5-turbo", cfg.ChatModel)
	req.Equal("whisper-1", cfg.TranscriptionModel)
	req.Equal("ru", cfg.TranscriptionLanguage)
	req.Equal("alloy", cfg.DefaultVoice)
	req.Equal(float32(0.7), cfg.Temperature)
	req.Equal(1000, cfg.MaxTokens)
	req.Equal(int64(4718592), cfg.MaxFileSizeBytes)
	req.Equal(StorageSQLite, cfg.StorageBackend)
	req.False(cfg.Debug())
}

func TestParse_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("COMPLETION_BACKEND", "gemini")
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_TOKENS", "256")

	cfg, err := Parse()
	req.NoError(err)
	req.Equal(BackendGemini, cfg.CompletionBackend)
	req.Equal(StorageBadger, cfg.StorageBackend)
	req.Equal(256, cfg.MaxTokens)
	req.True(cfg.Debug())
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "COMPLETION_BACKEND", "llama"},
		{"unknown storage", "STORAGE_BACKEND", "postgres"},
		{"unknown voice", "DEFAULT_VOICE", "robot"},
		{"temperature out of range", "TEMPERATURE", "3.5"},
		{"non numeric port", "HTTP_PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse()
			require.Error(t, err)
		})
	}
}
