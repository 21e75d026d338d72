package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"

	StorageSQLite = "sqlite"
	StorageBadger = "badger"
	StorageBolt   = "bolt"
)

type Config struct {
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIURL    string `envconfig:"OPENAI_BASE_URL"`

	CompletionBackend    string `envconfig:"COMPLETION_BACKEND" default:"openai" validate:"oneof=openai gemini"`
	TranscriptionBackend string `envconfig:"TRANSCRIPTION_BACKEND" default:"openai" validate:"oneof=openai gemini"`

	ChatModel             string  `envconfig:"CHAT_MODEL" default:"gpt-3.5-turbo" validate:"required"`
	GeminiModel           string  `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash-latest" validate:"required"`
	TranscriptionModel    string  `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-1" validate:"required"`
	TranscriptionLanguage string  `envconfig:"TRANSCRIPTION_LANGUAGE" default:"ru" validate:"required,min=2,max=5"`
	SpeechModel           string  `envconfig:"SPEECH_MODEL" default:"tts-1" validate:"required"`
	DefaultVoice          string  `envconfig:"DEFAULT_VOICE" default:"alloy" validate:"oneof=alloy echo fable onyx nova shimmer"`
	Temperature           float32 `envconfig:"TEMPERATURE" default:"0.7" validate:"gte=0,lte=2"`
	MaxTokens             int     `envconfig:"MAX_TOKENS" default:"1000" validate:"gt=0"`
	MaxFileSizeBytes      int64   `envconfig:"MAX_FILE_SIZE_BYTES" default:"4718592" validate:"gt=0"`

	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"sqlite" validate:"oneof=sqlite badger bolt"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:"windtone.db" validate:"required"`
	HTTPPort       string `envconfig:"HTTP_PORT" default:"8080" validate:"required,numeric"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

var AppConfig Config

var validate = validator.New()

// LoadConfig reads an optional .env file and the process environment into AppConfig.
// Missing API keys are not an error here; requests fail with a diagnostic instead.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return err
	}
	AppConfig = cfg

	if AppConfig.CompletionBackend == BackendOpenAI && AppConfig.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, completion requests will be rejected")
	}
	if AppConfig.CompletionBackend == BackendGemini && AppConfig.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set, completion requests will be rejected")
	}
	return nil
}

// Parse builds a validated Config from the environment without touching AppConfig.
func Parse() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) Debug() bool {
	return c.LogLevel == "DEBUG"
}
