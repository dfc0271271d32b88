package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/cofoundry/internal/models"
)

type fakePersister struct {
	mu    sync.Mutex
	fails int // сколько первых вызовов падают
	calls int
	saved []*models.ChatMessage
}

func (f *fakePersister) SaveChatMessage(_ context.Context, msg *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.fails {
		return errors.New("db down")
	}
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakePersister) GetRoomMessages(context.Context, string, int) ([]models.ChatMessage, error) {
	return nil, nil
}

func (f *fakePersister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakePersister) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func newTestPipeline(persister Persister) (*Pipeline, *Store) {
	store := NewStore()
	p := NewPipeline(store, persister, zerolog.Nop())
	p.retryDelay = 0
	return p, store
}

func verifiedProfile() *models.Profile {
	return &models.Profile{
		ID:            uuid.New(),
		Name:          "Alice",
		RoleType:      models.RoleFounder,
		EmailVerified: true,
	}
}

func messageStatus(store *Store, roomID, msgID uuid.UUID) Status {
	for _, m := range store.List(roomID) {
		if m.ID == msgID {
			return m.Status
		}
	}
	return ""
}

func TestPipeline_SendHappyPath(t *testing.T) {
	persister := &fakePersister{}
	p, store := newTestPipeline(persister)

	profile := verifiedProfile()
	room := &models.Room{ID: uuid.New()}

	msg, err := p.Send("hello", profile, room)
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Content)
	require.Equal(t, profile.ID, msg.SenderID)
	require.False(t, msg.IsRead)

	// Сообщение видно сразу, последним в логе
	list := store.List(room.ID)
	require.Len(t, list, 1)
	require.Equal(t, msg.ID, list[0].ID)

	// Фоновое подтверждение доходит до sent
	require.Eventually(t, func() bool {
		return messageStatus(store, room.ID, msg.ID) == StatusSent
	}, time.Second, time.Millisecond)
	require.Equal(t, 1, persister.callCount())
}

func TestPipeline_SendTrimsContent(t *testing.T) {
	p, store := newTestPipeline(&fakePersister{})

	msg, err := p.Send("  hello  ", verifiedProfile(), &models.Room{ID: uuid.New()})
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Content)
	require.Len(t, store.List(msg.RoomID), 1)
}

func TestPipeline_SendEmptyContent(t *testing.T) {
	p, store := newTestPipeline(&fakePersister{})
	room := &models.Room{ID: uuid.New()}

	_, err := p.Send("   ", verifiedProfile(), room)
	require.ErrorIs(t, err, ErrEmptyContent)
	require.Empty(t, store.List(room.ID))
}

func TestPipeline_SendBlockedUnverified(t *testing.T) {
	p, store := newTestPipeline(&fakePersister{})

	profile := verifiedProfile()
	profile.EmailVerified = false
	room := &models.Room{ID: uuid.New()}

	_, err := p.Send("hi", profile, room)

	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	require.Equal(t, ReasonUnverifiedEmail, accessErr.Reason)
	require.Empty(t, store.List(room.ID))
}

func TestPipeline_SendBlockedArchived(t *testing.T) {
	p, store := newTestPipeline(&fakePersister{})
	room := &models.Room{ID: uuid.New(), IsArchived: true}

	_, err := p.Send("hi", verifiedProfile(), room)

	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	require.Equal(t, ReasonRoomArchived, accessErr.Reason)
	require.Empty(t, store.List(room.ID))
}

func TestPipeline_ConfirmRetriesThenSucceeds(t *testing.T) {
	persister := &fakePersister{fails: 2}
	p, store := newTestPipeline(persister)
	room := &models.Room{ID: uuid.New()}

	msg, err := p.Send("hello", verifiedProfile(), room)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return messageStatus(store, room.ID, msg.ID) == StatusSent
	}, time.Second, time.Millisecond)
	require.Equal(t, 3, persister.callCount())
	require.Equal(t, 1, persister.savedCount())
}

func TestPipeline_ConfirmExhaustionFlagsFailed(t *testing.T) {
	persister := &fakePersister{fails: persistAttempts}
	p, store := newTestPipeline(persister)
	room := &models.Room{ID: uuid.New()}

	msg, err := p.Send("hello", verifiedProfile(), room)
	require.NoError(t, err)

	// После исчерпания попыток сообщение помечено failed,
	// но остаётся в логе — не выбрасывается молча
	require.Eventually(t, func() bool {
		return messageStatus(store, room.ID, msg.ID) == StatusFailed
	}, time.Second, time.Millisecond)

	list := store.List(room.ID)
	require.Len(t, list, 1)
	require.Equal(t, persistAttempts, persister.callCount())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func TestPipeline_ExhaustionLogsPersistError(t *testing.T) {
	persister := &fakePersister{fails: persistAttempts}
	store := NewStore()

	var buf syncBuffer
	p := NewPipeline(store, persister, zerolog.New(&buf))
	p.retryDelay = 0

	room := &models.Room{ID: uuid.New()}
	_, err := p.Send("hello", verifiedProfile(), room)
	require.NoError(t, err)

	// Финальная запись в лог несёт типизированную причину провала
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), ErrPersistFailed.Error())
	}, time.Second, time.Millisecond)
}

func TestPipeline_NoPersisterMarksSent(t *testing.T) {
	p, store := newTestPipeline(nil)
	room := &models.Room{ID: uuid.New()}

	msg, err := p.Send("hello", verifiedProfile(), room)
	require.NoError(t, err)
	require.Equal(t, StatusSent, messageStatus(store, room.ID, msg.ID))
}
