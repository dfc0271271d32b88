package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thereayou/cofoundry/internal/models"
)

// Сколько сообщений истории поднимать из записи при прогреве лога
const historyLimit = 500

// Service — фасад чат-ядра для HTTP и WebSocket слоёв: таймлайн,
// проверка права писать, отправка и сигнал печати.
type Service struct {
	store     *Store
	pipeline  *Pipeline
	persister Persister
	loc       *time.Location
	log       zerolog.Logger

	mu       sync.Mutex
	presence map[uuid.UUID]*Simulator
	hydrated map[uuid.UUID]bool
}

// NewService собирает ядро. loc задаёт зону для разбивки таймлайна по
// дням, nil — локальная зона сервера.
func NewService(persister Persister, loc *time.Location, log zerolog.Logger) *Service {
	store := NewStore()
	return &Service{
		store:     store,
		pipeline:  NewPipeline(store, persister, log),
		persister: persister,
		loc:       loc,
		log:       log,
		presence:  make(map[uuid.UUID]*Simulator),
		hydrated:  make(map[uuid.UUID]bool),
	}
}

// GetTimeline отдаёт историю комнаты, готовую к рендеру.
func (s *Service) GetTimeline(roomID uuid.UUID) []DateGroup {
	s.hydrate(roomID)
	return BuildTimeline(s.store.List(roomID), s.loc)
}

// GetSendability — вердикт политики доступа без побочных эффектов.
func (s *Service) GetSendability(profile *models.Profile, room *models.Room) Verdict {
	return EvaluateAccess(profile, room)
}

// Send проводит сообщение через пайплайн отправки.
func (s *Service) Send(content string, profile *models.Profile, room *models.Room) (Message, error) {
	s.hydrate(room.ID)
	return s.pipeline.Send(content, profile, room)
}

// MarkRead помечает сообщение прочитанным (идемпотентно).
func (s *Service) MarkRead(roomID, messageID uuid.UUID) {
	s.store.MarkRead(roomID, messageID)
}

// Subscribe — подписка на изменения лога комнаты для push-адаптеров.
func (s *Service) Subscribe(roomID uuid.UUID) (<-chan struct{}, func()) {
	return s.store.Subscribe(roomID)
}

// TypingSignal возвращает текущий сигнал "кто-то печатает" для комнаты.
func (s *Service) TypingSignal(roomID uuid.UUID) bool {
	s.mu.Lock()
	sim := s.presence[roomID]
	s.mu.Unlock()

	return sim != nil && sim.Typing()
}

// WatchRoom включает симулятор присутствия для комнаты, если его ещё нет.
func (s *Service) WatchRoom(roomID uuid.UUID) {
	s.hydrate(roomID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presence[roomID]; ok {
		return
	}
	sim := NewSimulator(nil, nil)
	s.presence[roomID] = sim
	go sim.Run()
}

// LeaveRoom останавливает симулятор комнаты и освобождает его таймеры.
// Вызывается при уходе из комнаты, чтобы тики не текли.
func (s *Service) LeaveRoom(roomID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sim, ok := s.presence[roomID]; ok {
		sim.Stop()
		delete(s.presence, roomID)
	}
}

// Close гасит все симуляторы при остановке сервера.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sim := range s.presence {
		sim.Stop()
		delete(s.presence, id)
	}
}

// hydrate один раз поднимает сохранённую историю комнаты в лог, чтобы
// после рестарта таймлайн не начинался с пустого места. Подтверждённые
// ранее сообщения приходят уже со статусом sent.
func (s *Service) hydrate(roomID uuid.UUID) {
	if s.persister == nil {
		return
	}

	s.mu.Lock()
	if s.hydrated[roomID] {
		s.mu.Unlock()
		return
	}
	s.hydrated[roomID] = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	records, err := s.persister.GetRoomMessages(ctx, roomID.String(), historyLimit)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("room_id", roomID.String()).
			Msg("room history load failed")

		// Не фиксируем провал: следующее обращение попробует снова
		s.mu.Lock()
		delete(s.hydrated, roomID)
		s.mu.Unlock()
		return
	}

	for _, rec := range records {
		msg := Message{
			ID:         rec.ID,
			RoomID:     rec.RoomID,
			SenderID:   rec.SenderID,
			SenderName: rec.Sender.Name,
			SenderRole: rec.Sender.RoleType,
			Content:    rec.Content,
			CreatedAt:  rec.CreatedAt,
			IsRead:     rec.IsRead,
			Status:     StatusSent,
		}
		if _, err := s.store.Append(roomID, msg); err != nil {
			// Уже в логе — оптимистичная отправка успела раньше прогрева
			continue
		}
	}
}
