package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const transcriptionPrompt = "Transcribe the speech in this recording verbatim. " +
	"The spoken language is %q. Return only the transcript text, nothing else. " +
	"If there is no intelligible speech, return an empty response."

type GeminiConfig struct {
	APIKey string
}

// Gemini implements completion and transcription on the Gemini API.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		log.Println("Gemini provider created without API key")
		return &Gemini{}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (p *Gemini) Close() {
	if p.client != nil {
		if err := p.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (p *Gemini) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.client == nil {
		return "", missingKey("GEMINI_API_KEY")
	}

	model := p.client.GenerativeModel(req.Model)
	temp := req.Temperature
	model.GenerationConfig = genai.GenerationConfig{Temperature: &temp}
	if req.MaxTokens > 0 {
		maxTokens := int32(req.MaxTokens)
		model.GenerationConfig.MaxOutputTokens = &maxTokens
	}

	system, history, last, err := geminiHistory(req.Messages)
	if err != nil {
		return "", err
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	chatSession := model.StartChat()
	chatSession.History = history

	resp, err := chatSession.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", wrapGeminiError(err)
	}
	return responseText(resp), nil
}

// geminiHistory splits messages into the joined system instruction, the chat
// history and the final user message that is sent.
func geminiHistory(messages []Message) (string, []*genai.Content, *genai.Content, error) {
	var system []string
	var history []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	if len(history) == 0 {
		return "", nil, nil, fmt.Errorf("prompt history is empty for chat completion")
	}
	last := history[len(history)-1]
	if last.Role != "user" {
		return "", nil, nil, fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}
	return strings.Join(system, "\n\n"), history[:len(history)-1], last, nil
}

func (p *Gemini) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if p.client == nil {
		return "", missingKey("GEMINI_API_KEY")
	}

	model := p.client.GenerativeModel(req.Model)
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: req.MediaType, Data: req.Data},
		genai.Text(fmt.Sprintf(transcriptionPrompt, req.Language)),
	)
	if err != nil {
		return "", wrapGeminiError(err)
	}
	return strings.TrimSpace(responseText(resp)), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return text.String()
}

// httpCoder is implemented by gax apierror.APIError.
type httpCoder interface {
	HTTPCode() int
}

func wrapGeminiError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &Error{Provider: "gemini", StatusCode: gErr.Code, Message: gErr.Message, Err: err}
	}
	var coder httpCoder
	if errors.As(err, &coder) && coder.HTTPCode() > 0 {
		return &Error{Provider: "gemini", StatusCode: coder.HTTPCode(), Message: err.Error(), Err: err}
	}
	return &Error{Provider: "gemini", Message: err.Error(), Err: err}
}
