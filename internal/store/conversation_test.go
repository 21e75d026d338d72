package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryBlob struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
}

func newMemoryBlob() *memoryBlob {
	return &memoryBlob{data: map[string][]byte{}}
}

func (m *memoryBlob) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryBlob) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memoryBlob) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(m.data[key])
	if err != nil || next == nil {
		return err
	}
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = next
	return nil
}

func (m *memoryBlob) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryBlob) Close() error { return nil }

func TestConversationStore_AppendKeepsCallOrder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConversationStore(newMemoryBlob(), 0)

	base := time.Now()
	var ids []string
	for i, text := range []string{"one", "two", "three", "four"} {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderAssistant
		}
		turn := NewTurn(sender, text, nil, base.Add(time.Duration(i)*time.Millisecond))
		ok, err := s.Append(ctx, turn)
		req.NoError(err)
		req.True(ok)
		ids = append(ids, turn.ID)
	}

	got := s.Snapshot()
	req.Len(got, 4)
	for i, turn := range got {
		req.Equal(ids[i], turn.ID)
	}
}

func TestConversationStore_Dedup(t *testing.T) {
	ctx := context.Background()
	base := time.Now()

	tests := []struct {
		name     string
		second   func(first Turn) Turn
		accepted bool
	}{
		{
			name: "same id",
			second: func(first Turn) Turn {
				t := first
				t.Text = "different"
				t.CreatedAt = base.Add(time.Hour)
				return t
			},
			accepted: false,
		},
		{
			name: "same sender and text within window",
			second: func(first Turn) Turn {
				return NewTurn(first.Sender, first.Text, nil, base.Add(999*time.Millisecond))
			},
			accepted: false,
		},
		{
			name: "same sender and text before the first",
			second: func(first Turn) Turn {
				return NewTurn(first.Sender, first.Text, nil, base.Add(-500*time.Millisecond))
			},
			accepted: false,
		},
		{
			name: "same sender and text outside window",
			second: func(first Turn) Turn {
				return NewTurn(first.Sender, first.Text, nil, base.Add(1000*time.Millisecond))
			},
			accepted: true,
		},
		{
			name: "different sender",
			second: func(first Turn) Turn {
				return NewTurn(SenderAssistant, first.Text, nil, base)
			},
			accepted: true,
		},
		{
			name: "different text",
			second: func(first Turn) Turn {
				return NewTurn(first.Sender, "other", nil, base)
			},
			accepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			s := NewConversationStore(newMemoryBlob(), DefaultDedupWindow)
			first := NewTurn(SenderUser, "hello", nil, base)
			ok, err := s.Append(ctx, first)
			req.NoError(err)
			req.True(ok)

			ok, err = s.Append(ctx, tt.second(first))
			req.NoError(err)
			req.Equal(tt.accepted, ok)

			want := 1
			if tt.accepted {
				want = 2
			}
			got := s.Snapshot()
			req.Len(got, want)
			req.Equal(first.ID, got[0].ID)
		})
	}
}

func TestConversationStore_PersistsAcrossReload(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	blob, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	req.NoError(err)
	defer blob.Close()

	s := NewConversationStore(blob, 0)
	user := NewTurn(SenderUser, "hello", []Attachment{{Name: "notes.txt", Size: 12}}, time.Now().UTC())
	user.Spoken = true
	_, err = s.Append(ctx, user)
	req.NoError(err)
	assistant := NewTurn(SenderAssistant, "hi there", nil, time.Now().UTC())
	_, err = s.Append(ctx, assistant)
	req.NoError(err)

	reloaded := NewConversationStore(blob, 0)
	got, err := reloaded.Load(ctx)
	req.NoError(err)
	req.Len(got, 2)
	req.Equal(user.ID, got[0].ID)
	req.Equal(SenderUser, got[0].Sender)
	req.Equal([]Attachment{{Name: "notes.txt", Size: 12}}, got[0].Attachments)
	req.True(got[0].Spoken)
	req.True(user.CreatedAt.Equal(got[0].CreatedAt))
	req.Equal("hi there", got[1].Text)
}

func TestConversationStore_SharedStorageKeepsBothWriters(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	cliBlob, err := NewSQLiteStore(path)
	req.NoError(err)
	defer cliBlob.Close()
	serverBlob, err := NewSQLiteStore(path)
	req.NoError(err)
	defer serverBlob.Close()

	server := NewConversationStore(serverBlob, 0)
	_, err = server.Load(ctx)
	req.NoError(err)
	cli := NewConversationStore(cliBlob, 0)
	_, err = cli.Load(ctx)
	req.NoError(err)

	now := time.Now()
	ok, err := cli.Append(ctx, NewTurn(SenderUser, "from chatctl", nil, now))
	req.NoError(err)
	req.True(ok)
	ok, err = server.Append(ctx, NewTurn(SenderUser, "from browser", nil, now.Add(time.Second)))
	req.NoError(err)
	req.True(ok)
	req.Len(server.Snapshot(), 2)

	got, err := NewConversationStore(serverBlob, 0).Load(ctx)
	req.NoError(err)
	req.Len(got, 2)
	req.Equal("from chatctl", got[0].Text)
	req.Equal("from browser", got[1].Text)

	// a turn the other writer already stored counts for dedup
	ok, err = cli.Append(ctx, got[1])
	req.NoError(err)
	req.False(ok)
}

func TestConversationStore_LoadAbsentAndCorrupt(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	blob := newMemoryBlob()
	s := NewConversationStore(blob, 0)

	got, err := s.Load(ctx)
	req.NoError(err)
	req.Empty(got)

	blob.data[HistoryKey] = []byte("not json")
	got, err = s.Load(ctx)
	req.NoError(err)
	req.Empty(got)
}

func TestConversationStore_FailedWriteRollsBack(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	blob := newMemoryBlob()
	s := NewConversationStore(blob, 0)

	_, err := s.Append(ctx, NewTurn(SenderUser, "kept", nil, time.Now()))
	req.NoError(err)

	blob.putErr = errors.New("disk full")
	ok, err := s.Append(ctx, NewTurn(SenderUser, "lost", nil, time.Now().Add(time.Hour)))
	req.Error(err)
	req.False(ok)
	req.Len(s.Snapshot(), 1)
}

func TestConversationStore_ClearResetsEverything(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	blob := newMemoryBlob()
	s := NewConversationStore(blob, 0)

	_, err := s.Append(ctx, NewTurn(SenderUser, "hello", nil, time.Now()))
	req.NoError(err)
	_, err = s.Acquire()
	req.NoError(err)
	req.True(s.Busy())

	req.NoError(s.Clear(ctx))
	req.False(s.Busy())
	req.Empty(s.Snapshot())

	got, err := NewConversationStore(blob, 0).Load(ctx)
	req.NoError(err)
	req.Empty(got)
}

func TestConversationStore_LeaseLifecycle(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConversationStore(newMemoryBlob(), 0)

	lease, err := s.Acquire()
	req.NoError(err)
	_, err = s.Acquire()
	req.ErrorIs(err, ErrBusy)

	s.Release(lease)
	req.False(s.Busy())

	stale, err := s.Acquire()
	req.NoError(err)
	req.NoError(s.Clear(ctx))

	fresh, err := s.Acquire()
	req.NoError(err)

	// the pre-clear submission must neither unlock nor write into the new conversation
	s.Release(stale)
	req.True(s.Busy())
	_, err = s.AppendFor(ctx, stale, NewTurn(SenderAssistant, "late", nil, time.Now()))
	req.ErrorIs(err, ErrStaleLease)
	req.Empty(s.Snapshot())

	ok, err := s.AppendFor(ctx, fresh, NewTurn(SenderAssistant, "on time", nil, time.Now()))
	req.NoError(err)
	req.True(ok)
	s.Release(fresh)
	req.False(s.Busy())
}

func TestConversationStore_Subscribe(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewConversationStore(newMemoryBlob(), 0)

	updates, cancel := s.Subscribe()
	defer cancel()

	initial := <-updates
	req.Empty(initial.Turns)
	req.False(initial.Busy)

	lease, err := s.Acquire()
	req.NoError(err)
	_, err = s.Append(ctx, NewTurn(SenderUser, "hello", nil, time.Now()))
	req.NoError(err)

	// only the latest snapshot is buffered
	latest := <-updates
	req.True(latest.Busy)
	req.Len(latest.Turns, 1)

	s.Release(lease)
	latest = <-updates
	req.False(latest.Busy)

	cancel()
	_, open := <-updates
	req.False(open)
}

func TestConversation_VoiceEnabled(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	spokenUser := NewTurn(SenderUser, "read it aloud", nil, now)
	spokenUser.Spoken = true
	conv := Conversation{
		NewTurn(SenderAssistant, "welcome", nil, now),
		spokenUser,
		NewTurn(SenderAssistant, "sure", nil, now),
		NewTurn(SenderUser, "now quietly", nil, now),
		NewTurn(SenderAssistant, "ok", nil, now),
	}

	req.False(conv.VoiceEnabled(0))
	req.False(conv.VoiceEnabled(1))
	req.True(conv.VoiceEnabled(2))
	req.False(conv.VoiceEnabled(4))
	req.False(conv.VoiceEnabled(10))
}
