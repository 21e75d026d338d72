package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// OpenAI implements completion, transcription and speech on the OpenAI API.
type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.APIKey == "" {
		log.Println("OpenAI provider created without API key")
		return &OpenAI{}
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientConfig)}
}

func (p *OpenAI) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.client == nil {
		return "", missingKey("OPENAI_API_KEY")
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("completion request has no messages")
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAI) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if p.client == nil {
		return "", missingKey("OPENAI_API_KEY")
	}
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    req.Model,
		FilePath: req.FileName,
		Reader:   bytes.NewReader(req.Data),
		Language: req.Language,
	})
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	return resp.Text, nil
}

func (p *OpenAI) Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error) {
	if p.client == nil {
		return nil, missingKey("OPENAI_API_KEY")
	}
	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(req.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(req.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	return audio, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    convertRole(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}

func convertRole(role Role) string {
	switch role {
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = strings.TrimSpace(reqErr.Err.Error())
		}
		return &Error{Provider: "openai", StatusCode: reqErr.HTTPStatusCode, Message: msg, Err: err}
	}
	return &Error{Provider: "openai", Message: err.Error(), Err: err}
}
