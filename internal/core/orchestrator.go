package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

const (
	emptyReplyText = "Sorry, no response could be obtained."
	tooLargeText   = "❌ Error: the request is too large. Please:\n" +
		"- reduce the size of the attached files%s\n" +
		"- or clear the chat history"
	failureChecklist = "\n\nPlease check:\n" +
		"- that the API key is configured in your .env file\n" +
		"- the format of the attached files\n" +
		"- your internet connection"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusDuplicate Status = "duplicate"
	StatusDiscarded Status = "discarded"
)

type OrchestratorConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// MaxFileSize is the per-file upload limit quoted in the too-large message.
	MaxFileSize int64
}

// Orchestrator owns the single in-flight slot and turns one provider call
// into exactly one committed assistant turn, success or error.
type Orchestrator struct {
	store      *store.ConversationStore
	completion provider.CompletionProvider
	cfg        OrchestratorConfig
	now        func() time.Time
}

func NewOrchestrator(st *store.ConversationStore, completion provider.CompletionProvider, cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		store:      st,
		completion: completion,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Begin takes the in-flight slot; it fails with ErrBusy without side effects.
func (o *Orchestrator) Begin() (store.Lease, error) {
	return o.store.Acquire()
}

// Submit builds the request with prepare, calls the provider once and commits the
// resulting assistant turn. The slot is released on every path.
func (o *Orchestrator) Submit(ctx context.Context, lease store.Lease, prepare func(context.Context) []provider.Message) (store.Turn, Status, error) {
	defer o.store.Release(lease)

	messages := prepare(ctx)
	text, status := o.complete(ctx, messages)

	turn := store.NewTurn(store.SenderAssistant, text, nil, o.now())
	ok, err := o.store.AppendFor(ctx, lease, turn)
	switch {
	case errors.Is(err, store.ErrStaleLease):
		log.Printf("Orchestrator: conversation cleared during request, dropping assistant turn %s", turn.ID)
		return turn, StatusDiscarded, nil
	case err != nil:
		return turn, StatusFailed, fmt.Errorf("failed to store assistant turn: %w", err)
	case !ok:
		return turn, StatusDuplicate, nil
	}
	return turn, status, nil
}

func (o *Orchestrator) complete(ctx context.Context, messages []provider.Message) (text string, status Status) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Orchestrator: completion provider panicked: %v", r)
			text, status = FailureText(fmt.Errorf("provider panic: %v", r), o.cfg.MaxFileSize), StatusFailed
		}
	}()

	start := time.Now()
	reply, err := o.completion.Complete(ctx, provider.CompletionRequest{
		Model:       o.cfg.Model,
		Messages:    messages,
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	})
	if err != nil {
		log.Printf("Orchestrator: completion with %d messages failed after %s: %v", len(messages), time.Since(start), err)
		return FailureText(err, o.cfg.MaxFileSize), StatusFailed
	}
	log.Printf("Orchestrator: completion with %d messages took %s, reply length %d", len(messages), time.Since(start), len(reply))
	if strings.TrimSpace(reply) == "" {
		return emptyReplyText, StatusCompleted
	}
	return reply, StatusCompleted
}

// FailureText explains a failed request in words a user can act on.
// maxFileSize is the per-file upload limit; zero leaves it out.
func FailureText(err error, maxFileSize int64) string {
	switch {
	case errors.Is(err, provider.ErrAPIKeyNotConfigured):
		return "❌ Error: " + err.Error()
	case provider.IsTooLarge(err):
		limit := ""
		if maxFileSize > 0 {
			limit = fmt.Sprintf(" (at most %.1f MB per file)", float64(maxFileSize)/(1024*1024))
		}
		return fmt.Sprintf(tooLargeText, limit)
	}
	return "❌ Error: " + describeError(err) + failureChecklist
}

func describeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "the request timed out"
	}
	var perr *provider.Error
	if errors.As(err, &perr) {
		msg := strings.TrimSpace(perr.Message)
		if msg == "" {
			msg = "the " + perr.Provider + " service rejected the request"
		}
		if perr.StatusCode != 0 {
			return fmt.Sprintf("%s (%s, HTTP %d)", msg, http.StatusText(perr.StatusCode), perr.StatusCode)
		}
		return msg
	}
	return err.Error()
}
