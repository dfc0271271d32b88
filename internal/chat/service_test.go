package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/cofoundry/internal/models"
)

// fakeBackend отдаёт заранее заготовленную историю комнат
type fakeBackend struct {
	fakePersister
	history map[string][]models.ChatMessage
	loads   int
}

func (f *fakeBackend) GetRoomMessages(_ context.Context, roomID string, _ int) ([]models.ChatMessage, error) {
	f.loads++
	return f.history[roomID], nil
}

func newTestService() *Service {
	svc := NewService(nil, time.UTC, zerolog.Nop())
	svc.pipeline.retryDelay = 0
	return svc
}

func TestService_GetTimelineEmptyRoom(t *testing.T) {
	svc := newTestService()

	// Комната без истории — нормальное состояние, не ошибка
	require.Empty(t, svc.GetTimeline(uuid.New()))
}

func TestService_SendAppearsInTimeline(t *testing.T) {
	svc := newTestService()

	profile := &models.Profile{ID: uuid.New(), Name: "Alice", EmailVerified: true}
	room := &models.Room{ID: uuid.New()}

	msg, err := svc.Send("hello", profile, room)
	require.NoError(t, err)

	groups := svc.GetTimeline(room.ID)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Messages, 1)
	require.Equal(t, msg.ID, groups[0].Messages[0].ID)
	require.Equal(t, "hello", groups[0].Messages[0].Content)
}

func TestService_TypingSignalUnwatchedRoom(t *testing.T) {
	svc := newTestService()

	require.False(t, svc.TypingSignal(uuid.New()))
}

func TestService_WatchAndLeaveRoom(t *testing.T) {
	svc := newTestService()
	roomID := uuid.New()

	svc.WatchRoom(roomID)
	svc.WatchRoom(roomID) // повторный watch не плодит симуляторы

	svc.mu.Lock()
	require.Len(t, svc.presence, 1)
	svc.mu.Unlock()

	svc.LeaveRoom(roomID)

	svc.mu.Lock()
	require.Empty(t, svc.presence)
	svc.mu.Unlock()

	require.False(t, svc.TypingSignal(roomID))
}

func TestService_HydratesRoomHistory(t *testing.T) {
	roomID := uuid.New()
	sender := uuid.New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	backend := &fakeBackend{history: map[string][]models.ChatMessage{
		roomID.String(): {
			{
				ID:        uuid.New(),
				RoomID:    roomID,
				SenderID:  sender,
				Content:   "first",
				CreatedAt: base,
				Sender:    models.Profile{Name: "Alice", RoleType: models.RoleFounder},
			},
			{
				ID:        uuid.New(),
				RoomID:    roomID,
				SenderID:  sender,
				Content:   "second",
				IsRead:    true,
				CreatedAt: base.Add(time.Minute),
				Sender:    models.Profile{Name: "Alice", RoleType: models.RoleFounder},
			},
		},
	}}

	svc := NewService(backend, time.UTC, zerolog.Nop())
	svc.pipeline.retryDelay = 0

	// После рестарта таймлайн поднимается из записи, а не с нуля
	groups := svc.GetTimeline(roomID)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Messages, 2)
	require.Equal(t, "first", groups[0].Messages[0].Content)
	require.Equal(t, "second", groups[0].Messages[1].Content)
	require.Equal(t, "Alice", groups[0].Messages[0].SenderName)
	require.True(t, groups[0].Messages[1].IsRead)

	// Поднятое из записи уже подтверждено
	require.Equal(t, StatusSent, groups[0].Messages[0].Status)

	// Прогрев одноразовый
	svc.GetTimeline(roomID)
	require.Equal(t, 1, backend.loads)
}

func TestService_SendAfterHydrationKeepsOrder(t *testing.T) {
	roomID := uuid.New()
	sender := uuid.New()

	backend := &fakeBackend{history: map[string][]models.ChatMessage{
		roomID.String(): {
			{
				ID:        uuid.New(),
				RoomID:    roomID,
				SenderID:  sender,
				Content:   "old",
				CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
				Sender:    models.Profile{Name: "Alice"},
			},
		},
	}}

	svc := NewService(backend, time.UTC, zerolog.Nop())
	svc.pipeline.retryDelay = 0

	profile := &models.Profile{ID: uuid.New(), Name: "Bob", EmailVerified: true}
	room := &models.Room{ID: roomID}

	// Первое обращение — отправка: история поднимается до append'а,
	// новое сообщение встаёт в хвост
	msg, err := svc.Send("new", profile, room)
	require.NoError(t, err)

	list := svc.store.List(roomID)
	require.Len(t, list, 2)
	require.Equal(t, "old", list[0].Content)
	require.Equal(t, msg.ID, list[1].ID)
}

func TestService_CloseStopsAllSimulators(t *testing.T) {
	svc := newTestService()

	svc.WatchRoom(uuid.New())
	svc.WatchRoom(uuid.New())

	svc.Close()

	svc.mu.Lock()
	require.Empty(t, svc.presence)
	svc.mu.Unlock()
}
