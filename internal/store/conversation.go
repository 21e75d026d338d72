package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultDedupWindow is how close two identical turns must be to count as one submission.
const DefaultDedupWindow = 1000 * time.Millisecond

var (
	ErrBusy       = errors.New("a submission is already in progress")
	ErrStaleLease = errors.New("conversation was cleared after the submission started")
)

// State is the observable snapshot of the conversation.
type State struct {
	Turns Conversation `json:"turns"`
	Busy  bool         `json:"busy"`
}

// Lease is proof of holding the single in-flight submission slot.
// A Clear invalidates every outstanding lease.
type Lease struct {
	epoch uint64
}

// ConversationStore is the single owner of the turn history and the busy flag.
// Every mutation goes through it and is persisted as the whole conversation.
type ConversationStore struct {
	mu          sync.Mutex
	blob        Blob
	turns       Conversation
	busy        bool
	epoch       uint64
	dedupWindow time.Duration

	nextSubID   int
	subscribers map[int]chan State
}

func NewConversationStore(blob Blob, dedupWindow time.Duration) *ConversationStore {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}
	return &ConversationStore{
		blob:        blob,
		turns:       Conversation{},
		dedupWindow: dedupWindow,
		subscribers: make(map[int]chan State),
	}
}

// Load replaces the in-memory history with the persisted one.
// An undecodable blob is treated as an empty conversation.
func (s *ConversationStore) Load(ctx context.Context) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blob.Get(ctx, HistoryKey)
	if err != nil {
		return nil, err
	}
	turns, err := decodeConversation(data)
	if err != nil {
		log.Printf("Warning: persisted conversation is unreadable, starting empty: %v", err)
		turns = Conversation{}
	}
	s.turns = turns
	s.notifyLocked()
	return s.snapshotLocked(), nil
}

// Snapshot returns a copy of the current turns.
func (s *ConversationStore) Snapshot() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ConversationStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Turns: s.snapshotLocked(), Busy: s.busy}
}

func (s *ConversationStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Append commits turn at the end of the conversation and persists it.
// It returns false without error when the turn is a duplicate.
func (s *ConversationStore) Append(ctx context.Context, turn Turn) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(ctx, turn)
}

// AppendFor appends on behalf of a submission; it fails with ErrStaleLease
// when the conversation was cleared since the lease was taken.
func (s *ConversationStore) AppendFor(ctx context.Context, lease Lease, turn Turn) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lease.epoch != s.epoch {
		return false, ErrStaleLease
	}
	return s.appendLocked(ctx, turn)
}

// appendLocked merges against the stored conversation rather than the in-memory
// copy, so turns written by another process sharing the storage are kept.
func (s *ConversationStore) appendLocked(ctx context.Context, turn Turn) (bool, error) {
	var next Conversation
	duplicate := false
	err := s.blob.Update(ctx, HistoryKey, func(current []byte) ([]byte, error) {
		stored, err := decodeConversation(current)
		if err != nil {
			log.Printf("Warning: persisted conversation is unreadable, appending to the in-memory copy: %v", err)
			stored = s.turns
		}
		if s.isDuplicate(stored, turn) {
			duplicate = true
			return nil, nil
		}
		next = make(Conversation, len(stored), len(stored)+1)
		copy(next, stored)
		next = append(next, turn)
		return encodeConversation(next)
	})
	if err != nil {
		return false, err
	}
	if duplicate {
		log.Printf("Duplicate %s turn %s dropped", turn.Sender, turn.ID)
		return false, nil
	}
	s.turns = next
	s.notifyLocked()
	return true, nil
}

func (s *ConversationStore) isDuplicate(turns Conversation, candidate Turn) bool {
	for _, t := range turns {
		if t.ID == candidate.ID {
			return true
		}
		if t.Sender == candidate.Sender && t.Text == candidate.Text &&
			absDuration(t.CreatedAt.Sub(candidate.CreatedAt)) < s.dedupWindow {
			return true
		}
	}
	return false
}

// Clear removes the persisted history, empties memory and forces busy off.
func (s *ConversationStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blob.Delete(ctx, HistoryKey); err != nil {
		return err
	}
	s.turns = Conversation{}
	s.busy = false
	s.epoch++
	s.notifyLocked()
	return nil
}

// Acquire takes the single in-flight slot or fails immediately with ErrBusy.
func (s *ConversationStore) Acquire() (Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return Lease{}, ErrBusy
	}
	s.busy = true
	s.notifyLocked()
	return Lease{epoch: s.epoch}, nil
}

// Release frees the slot. Releasing a lease invalidated by Clear is a no-op.
func (s *ConversationStore) Release(lease Lease) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lease.epoch != s.epoch || !s.busy {
		return
	}
	s.busy = false
	s.notifyLocked()
}

// Subscribe delivers the latest State after every change. Slow readers only
// ever see the most recent snapshot. The returned func unsubscribes.
func (s *ConversationStore) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan State, 1)
	s.subscribers[id] = ch
	ch <- State{Turns: s.snapshotLocked(), Busy: s.busy}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *ConversationStore) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	state := State{Turns: s.snapshotLocked(), Busy: s.busy}
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

func (s *ConversationStore) snapshotLocked() Conversation {
	out := make(Conversation, len(s.turns))
	copy(out, s.turns)
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
