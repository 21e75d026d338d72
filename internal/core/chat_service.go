package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"gwi.com/windtone-assistant/internal/provider"
	"gwi.com/windtone-assistant/internal/store"
)

type Input struct {
	Text   string
	Files  []File
	Spoken bool
}

// Outcome is the single terminal result of a submission.
type Outcome struct {
	UserTurn      store.Turn  `json:"userTurn"`
	AssistantTurn *store.Turn `json:"assistantTurn,omitempty"`
	Status        Status      `json:"status"`
	Err           error       `json:"-"`
}

// Submission is returned by AddMessage once the user turn is committed.
type Submission struct {
	UserTurn store.Turn
	done     chan struct{}
	outcome  Outcome
}

func newSubmission(userTurn store.Turn) *Submission {
	return &Submission{UserTurn: userTurn, done: make(chan struct{})}
}

func (s *Submission) finish(outcome Outcome) {
	s.outcome = outcome
	close(s.done)
}

// Done is closed once the outcome is available.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Outcome blocks until the submission settles.
func (s *Submission) Outcome() Outcome {
	<-s.done
	return s.outcome
}

// Wait blocks until the submission settles or ctx ends. The submission keeps
// running when ctx ends first.
func (s *Submission) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

type ChatService struct {
	store        *store.ConversationStore
	assembler    *Assembler
	orchestrator *Orchestrator
	now          func() time.Time
	inflight     sync.WaitGroup
}

func NewChatService(st *store.ConversationStore, assembler *Assembler, orchestrator *Orchestrator) *ChatService {
	return &ChatService{
		store:        st,
		assembler:    assembler,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// AddMessage commits the user turn and starts the request in the background.
// It rejects immediately with ErrBusy while another submission is in flight.
func (s *ChatService) AddMessage(ctx context.Context, in Input) (*Submission, error) {
	if strings.TrimSpace(in.Text) == "" && len(in.Files) == 0 {
		return nil, ErrEmptyMessage
	}

	lease, err := s.orchestrator.Begin()
	if err != nil {
		log.Printf("ChatService: submission rejected: %v", err)
		return nil, err
	}

	attachments := lo.Map(in.Files, func(f File, _ int) store.Attachment { return f.Attachment() })
	userTurn := store.NewTurn(store.SenderUser, in.Text, attachments, s.now())
	userTurn.Spoken = in.Spoken
	sub := newSubmission(userTurn)

	ok, err := s.store.AppendFor(ctx, lease, userTurn)
	if err != nil {
		s.store.Release(lease)
		return nil, fmt.Errorf("failed to store user turn: %w", err)
	}
	if !ok {
		s.store.Release(lease)
		sub.finish(Outcome{UserTurn: userTurn, Status: StatusDuplicate})
		return sub, nil
	}
	log.Printf("ChatService: user turn %s committed with %d files", userTurn.ID, len(in.Files))

	// The context is the conversation as of this commit; a Clear afterwards must
	// not let later turns leak into this request.
	history := s.store.Snapshot()

	// The request must outlive the caller, e.g. an HTTP client that disconnects.
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		turn, status, err := s.orchestrator.Submit(bg, lease, func(ctx context.Context) []provider.Message {
			return s.assembler.Assemble(ctx, userTurn, in.Files, history)
		})
		if err != nil {
			log.Printf("ChatService: submission %s ended with error: %v", userTurn.ID, err)
		}
		outcome := Outcome{UserTurn: userTurn, Status: status, Err: err}
		if err == nil && (status == StatusCompleted || status == StatusFailed) {
			outcome.AssistantTurn = &turn
		}
		sub.finish(outcome)
	}()
	return sub, nil
}

// Wait blocks until every in-flight submission has settled.
func (s *ChatService) Wait() {
	s.inflight.Wait()
}

func (s *ChatService) Load(ctx context.Context) (store.Conversation, error) {
	return s.store.Load(ctx)
}

func (s *ChatService) History() store.Conversation {
	return s.store.Snapshot()
}

func (s *ChatService) State() store.State {
	return s.store.State()
}

func (s *ChatService) Busy() bool {
	return s.store.Busy()
}

func (s *ChatService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	log.Println("ChatService: history cleared")
	return nil
}

func (s *ChatService) Subscribe() (<-chan store.State, func()) {
	return s.store.Subscribe()
}
