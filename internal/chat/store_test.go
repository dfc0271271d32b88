package chat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendKeepsInsertionOrder(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()
	sender := uuid.New()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// CreatedAt нарочно в обратном порядке: лог хранит порядок принятия,
	// а не клиентские часы
	first, err := store.Append(roomID, Message{SenderID: sender, Content: "first", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	second, err := store.Append(roomID, Message{SenderID: sender, Content: "second", CreatedAt: base})
	require.NoError(t, err)

	list := store.List(roomID)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
}

func TestStore_AppendAssignsID(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()

	msg, err := store.Append(roomID, Message{SenderID: uuid.New(), Content: "hello"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, msg.ID)
	require.Equal(t, roomID, msg.RoomID)
}

func TestStore_AppendRejectsEmptyContent(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()

	_, err := store.Append(roomID, Message{SenderID: uuid.New(), Content: "   \n\t "})
	require.ErrorIs(t, err, ErrEmptyContent)
	require.Empty(t, store.List(roomID))
}

func TestStore_AppendRejectsDuplicateID(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()
	id := uuid.New()

	_, err := store.Append(roomID, Message{ID: id, SenderID: uuid.New(), Content: "one"})
	require.NoError(t, err)

	_, err = store.Append(roomID, Message{ID: id, SenderID: uuid.New(), Content: "two"})
	require.ErrorIs(t, err, ErrDuplicateID)

	// В другой комнате тот же id допустим: уникальность в рамках комнаты
	_, err = store.Append(uuid.New(), Message{ID: id, SenderID: uuid.New(), Content: "two"})
	require.NoError(t, err)
}

func TestStore_ListUnknownRoomIsEmpty(t *testing.T) {
	store := NewStore()

	list := store.List(uuid.New())
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestStore_MarkReadIdempotent(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()

	msg, err := store.Append(roomID, Message{SenderID: uuid.New(), Content: "hi"})
	require.NoError(t, err)
	require.False(t, msg.IsRead)

	store.MarkRead(roomID, msg.ID)
	require.True(t, store.List(roomID)[0].IsRead)

	// Повторная пометка — no-op
	store.MarkRead(roomID, msg.ID)
	require.True(t, store.List(roomID)[0].IsRead)

	// Неизвестное сообщение не роняет стор
	store.MarkRead(roomID, uuid.New())
}

func TestStore_MarkStatus(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()

	msg, err := store.Append(roomID, Message{SenderID: uuid.New(), Content: "hi", Status: StatusPending})
	require.NoError(t, err)

	store.MarkStatus(roomID, msg.ID, StatusSent)
	require.Equal(t, StatusSent, store.List(roomID)[0].Status)

	store.MarkStatus(roomID, msg.ID, StatusFailed)
	require.Equal(t, StatusFailed, store.List(roomID)[0].Status)
}

func TestStore_SubscribeNotifiesOnAppend(t *testing.T) {
	store := NewStore()
	roomID := uuid.New()

	ch, cancel := store.Subscribe(roomID)
	defer cancel()

	_, err := store.Append(roomID, Message{SenderID: uuid.New(), Content: "ping"})
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected notification after append")
	}

	// После отписки сигналы не приходят
	cancel()
	_, err = store.Append(roomID, Message{SenderID: uuid.New(), Content: "pong"})
	require.NoError(t, err)

	select {
	case <-ch:
		t.Fatal("unexpected notification after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}
