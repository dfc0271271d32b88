package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thereayou/cofoundry/internal/models"
)

const (
	persistAttempts = 3
	persistTimeout  = 10 * time.Second
)

// Persister подтверждает оптимистично добавленные сообщения в хранилище
// записи и отдаёт сохранённую историю комнаты. Реализуется слоем database
// поверх Postgres.
type Persister interface {
	SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error
	GetRoomMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error)
}

// Pipeline оркестрирует попытку отправки: валидация, проверка доступа,
// синхронный оптимистичный append и фоновое подтверждение бэкендом.
type Pipeline struct {
	store     *Store
	persister Persister
	log       zerolog.Logger

	now        func() time.Time
	retryDelay time.Duration
}

func NewPipeline(store *Store, persister Persister, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		persister:  persister,
		log:        log,
		now:        time.Now,
		retryDelay: time.Second,
	}
}

// Send валидирует и добавляет сообщение в лог комнаты. Append синхронный —
// отправитель видит сообщение сразу, до подтверждения бэкендом; само
// подтверждение уходит в фон.
func (p *Pipeline) Send(content string, profile *models.Profile, room *models.Room) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyContent
	}

	if v := EvaluateAccess(profile, room); !v.Allowed {
		return Message{}, &AccessError{Reason: v.Reason}
	}

	msg := Message{
		ID:         uuid.New(),
		RoomID:     room.ID,
		SenderID:   profile.ID,
		SenderName: profile.Name,
		SenderRole: profile.RoleType,
		Content:    content,
		CreatedAt:  p.now(),
		Status:     StatusPending,
	}

	stored, err := p.store.Append(room.ID, msg)
	if err != nil {
		return Message{}, err
	}

	if p.persister == nil {
		// Бэкенда нет (локальный режим) — подтверждать нечего.
		p.store.MarkStatus(room.ID, stored.ID, StatusSent)
		return stored, nil
	}

	go p.confirm(stored)

	return stored, nil
}

// confirm гоняет запись в Postgres с ограниченным числом попыток.
// Контекст свой, не от HTTP-запроса: уход клиента из комнаты не должен
// оставить оптимистичное сообщение без вердикта. После исчерпания
// попыток сообщение помечается failed — никогда не выбрасывается молча
// и не дублируется повторной вставкой.
func (p *Pipeline) confirm(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	record := &models.ChatMessage{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}

	for attempt := 1; attempt <= persistAttempts; attempt++ {
		err := p.persister.SaveChatMessage(ctx, record)
		if err == nil {
			p.store.MarkStatus(msg.RoomID, msg.ID, StatusSent)
			return
		}

		p.log.Warn().
			Err(err).
			Str("message_id", msg.ID.String()).
			Str("room_id", msg.RoomID.String()).
			Int("attempt", attempt).
			Msg("persist attempt failed")

		if attempt < persistAttempts {
			time.Sleep(p.retryDelay)
		}
	}

	p.store.MarkStatus(msg.RoomID, msg.ID, StatusFailed)
	p.log.Error().
		Err(ErrPersistFailed).
		Str("message_id", msg.ID.String()).
		Str("room_id", msg.RoomID.String()).
		Msg("message flagged as failed after retries")
}
