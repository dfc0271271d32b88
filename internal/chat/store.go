package chat

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store держит по одному append-only логу сообщений на комнату и отдаёт
// его строго в порядке вставки. Порядок задаётся принятием append'а,
// а не client-side CreatedAt: часы клиентов могут врать, CreatedAt —
// метаданные для отображения, не ключ сортировки.
type Store struct {
	mu   sync.RWMutex
	logs map[uuid.UUID][]Message
	// Индекс id -> позиция в логе комнаты, для markRead/markStatus
	// и проверки уникальности id в рамках комнаты.
	index map[uuid.UUID]map[uuid.UUID]int

	subs    map[uuid.UUID]map[int]chan struct{}
	nextSub int
}

func NewStore() *Store {
	return &Store{
		logs:  make(map[uuid.UUID][]Message),
		index: make(map[uuid.UUID]map[uuid.UUID]int),
		subs:  make(map[uuid.UUID]map[int]chan struct{}),
	}
}

// Append вставляет сообщение в хвост лога комнаты и возвращает сохранённую
// копию. Пустой id заменяется свежим uuid, повторный id в той же комнате
// отклоняется.
func (s *Store) Append(roomID uuid.UUID, msg Message) (Message, error) {
	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Content == "" {
		return Message{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if _, ok := s.index[roomID][msg.ID]; ok {
		return Message{}, ErrDuplicateID
	}

	msg.RoomID = roomID
	if s.index[roomID] == nil {
		s.index[roomID] = make(map[uuid.UUID]int)
	}
	s.index[roomID][msg.ID] = len(s.logs[roomID])
	s.logs[roomID] = append(s.logs[roomID], msg)

	s.notifyLocked(roomID)

	return msg, nil
}

// List возвращает сообщения комнаты в порядке вставки. Неизвестная
// комната — это пустая история, а не ошибка.
func (s *Store) List(roomID uuid.UUID) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[roomID]
	out := make([]Message, len(log))
	copy(out, log)
	return out
}

// MarkRead помечает сообщение прочитанным. Идемпотентна: повторная
// пометка уже прочитанного — no-op.
func (s *Store) MarkRead(roomID, messageID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[roomID][messageID]
	if !ok || s.logs[roomID][i].IsRead {
		return
	}
	s.logs[roomID][i].IsRead = true
	s.notifyLocked(roomID)
}

// MarkStatus используется пайплайном отправки для сверки: pending -> sent
// при подтверждении бэкендом, pending -> failed после исчерпания попыток.
func (s *Store) MarkStatus(roomID, messageID uuid.UUID, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[roomID][messageID]
	if !ok || s.logs[roomID][i].Status == status {
		return
	}
	s.logs[roomID][i].Status = status
	s.notifyLocked(roomID)
}

// Subscribe возвращает канал, в который прилетает сигнал при каждом
// изменении лога комнаты, и функцию отписки. Явный subscribe/notify
// вместо реактивных хуков: UI-адаптер сам решает, как перерисоваться.
func (s *Store) Subscribe(roomID uuid.UUID) (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := s.nextSub
	s.nextSub++

	if s.subs[roomID] == nil {
		s.subs[roomID] = make(map[int]chan struct{})
	}
	s.subs[roomID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[roomID], id)
	}
	return ch, cancel
}

func (s *Store) notifyLocked(roomID uuid.UUID) {
	for _, ch := range s.subs[roomID] {
		select {
		case ch <- struct{}{}:
		default:
			// подписчик ещё не забрал прошлый сигнал
		}
	}
}
