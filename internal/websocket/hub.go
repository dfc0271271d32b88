package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// MessageType определяет типы кадров
type MessageType string

const (
	// Системные типы
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"

	// Чат
	TypeMessage MessageType = "message"
	TypeTyping  MessageType = "typing"
	TypeRead    MessageType = "read"

	// Комнаты
	TypeRoomJoin  MessageType = "room_join"
	TypeRoomLeave MessageType = "room_leave"
	TypeRoomUsers MessageType = "room_users"

	// Статусы
	TypeUserOnline  MessageType = "user_online"
	TypeUserOffline MessageType = "user_offline"
)

type Message struct {
	Type      MessageType     `json:"type"`
	RoomID    *uuid.UUID      `json:"room_id,omitempty"`
	ProfileID uuid.UUID       `json:"profile_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Conn      *websocket.Conn
	Send      chan []byte
	Rooms     map[uuid.UUID]bool
	Hub       *Hub
	mu        sync.RWMutex
}

// RoomObserver получает уведомления о входе/выходе клиентов из комнат.
// Чат-ядро цепляет сюда запуск и остановку симулятора присутствия.
type RoomObserver interface {
	WatchRoom(roomID uuid.UUID)
	LeaveRoom(roomID uuid.UUID)
}

type Hub struct {
	clients map[uuid.UUID]*Client

	// Клиенты по ProfileID (несколько вкладок — несколько соединений)
	profileClients map[uuid.UUID]map[uuid.UUID]*Client

	// Клиенты в комнатах
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	observer RoomObserver

	mu sync.RWMutex

	log zerolog.Logger

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub. observer может быть nil.
func NewHub(observer RoomObserver, log zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:        make(map[uuid.UUID]*Client),
		profileClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rooms:          make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		observer:       observer,
		log:            log,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
}

// Register регистрирует нового клиента. После Stop — no-op, чтобы
// горутины соединений не зависали на канале без получателя.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister отменяет регистрацию клиента. После Stop — no-op.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.profileClients[client.ProfileID]; !ok {
		h.profileClients[client.ProfileID] = make(map[uuid.UUID]*Client)
	}
	h.profileClients[client.ProfileID][client.ID] = client

	h.log.Debug().
		Str("client_id", client.ID.String()).
		Str("profile_id", client.ProfileID.String()).
		Msg("client registered")

	h.notifyProfileStatus(client.ProfileID, TypeUserOnline)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	var emptied []uuid.UUID
	if _, ok := h.clients[client.ID]; ok {
		for roomID := range client.Rooms {
			h.removeFromRoomUnsafe(client, roomID)
			if len(h.rooms[roomID]) == 0 {
				emptied = append(emptied, roomID)
			}
		}

		if profileClients, ok := h.profileClients[client.ProfileID]; ok {
			delete(profileClients, client.ID)
			if len(profileClients) == 0 {
				delete(h.profileClients, client.ProfileID)
				h.notifyProfileStatus(client.ProfileID, TypeUserOffline)
			}
		}

		delete(h.clients, client.ID)
		close(client.Send)

		h.log.Debug().
			Str("client_id", client.ID.String()).
			Str("profile_id", client.ProfileID.String()).
			Msg("client unregistered")
	}

	h.mu.Unlock()

	// Обрыв соединения равносилен выходу из всех комнат: опустевшие
	// комнаты отдаём наблюдателю, иначе их симуляторы тикают впустую.
	if h.observer != nil {
		for _, roomID := range emptied {
			h.observer.LeaveRoom(roomID)
		}
	}
}

// JoinRoom добавляет клиента в комнату
func (h *Hub) JoinRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}

	h.rooms[roomID][client.ID] = client
	client.mu.Lock()
	client.Rooms[roomID] = true
	client.mu.Unlock()

	joinMsg := Message{
		Type:      TypeRoomJoin,
		RoomID:    &roomID,
		ProfileID: client.ProfileID,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(joinMsg); err == nil {
		h.broadcastToRoomExcept(roomID, data, client.ID)
	}

	h.sendRoomUsers(client, roomID)

	h.mu.Unlock()

	if h.observer != nil {
		h.observer.WatchRoom(roomID)
	}
}

// LeaveRoom удаляет клиента из комнаты
func (h *Hub) LeaveRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	h.removeFromRoomUnsafe(client, roomID)
	empty := len(h.rooms[roomID]) == 0
	h.mu.Unlock()

	// Комната опустела — гасим её симулятор присутствия, таймеры
	// не должны тикать в пустоту.
	if empty && h.observer != nil {
		h.observer.LeaveRoom(roomID)
	}
}

func (h *Hub) removeFromRoomUnsafe(client *Client, roomID uuid.UUID) {
	if room, ok := h.rooms[roomID]; ok {
		if _, ok := room[client.ID]; ok {
			delete(room, client.ID)
			client.mu.Lock()
			delete(client.Rooms, roomID)
			client.mu.Unlock()

			if len(room) == 0 {
				delete(h.rooms, roomID)
			} else {
				leaveMsg := Message{
					Type:      TypeRoomLeave,
					RoomID:    &roomID,
					ProfileID: client.ProfileID,
					Timestamp: time.Now(),
				}

				if data, err := json.Marshal(leaveMsg); err == nil {
					h.broadcastToRoomExcept(roomID, data, client.ID)
				}
			}
		}
	}
}

// SendToProfile отправляет кадр во все соединения профиля
func (h *Hub) SendToProfile(profileID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.profileClients[profileID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- message:
			default:
				h.log.Warn().Str("client_id", client.ID.String()).Msg("send channel full")
			}
		}
	}
}

// SendToRoom отправляет кадр всем в комнате
func (h *Hub) SendToRoom(roomID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.broadcastToRoomExcept(roomID, message, uuid.Nil)
}

// BroadcastEvent маршалит и рассылает типизированный кадр в комнату.
func (h *Hub) BroadcastEvent(roomID uuid.UUID, msgType MessageType, profileID uuid.UUID, payload interface{}) {
	msg := Message{
		Type:      msgType,
		RoomID:    &roomID,
		ProfileID: profileID,
		Timestamp: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			h.log.Warn().Err(err).Msg("broadcast payload marshal failed")
			return
		}
		msg.Data = data
	}

	if data, err := json.Marshal(msg); err == nil {
		h.SendToRoom(roomID, data)
	}
}

func (h *Hub) broadcastToRoomExcept(roomID uuid.UUID, message []byte, excludeID uuid.UUID) {
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			if client.ID != excludeID {
				select {
				case client.Send <- message:
				default:
					h.log.Warn().Str("client_id", client.ID.String()).Msg("send channel full")
				}
			}
		}
	}
}

func (h *Hub) sendRoomUsers(client *Client, roomID uuid.UUID) {
	profiles := make([]uuid.UUID, 0)

	if room, ok := h.rooms[roomID]; ok {
		seen := make(map[uuid.UUID]bool)
		for _, c := range room {
			seen[c.ProfileID] = true
		}

		for profileID := range seen {
			profiles = append(profiles, profileID)
		}
	}

	msg := Message{
		Type:      TypeRoomUsers,
		RoomID:    &roomID,
		ProfileID: client.ProfileID,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(profiles); err == nil {
		msg.Data = data
		if msgData, err := json.Marshal(msg); err == nil {
			select {
			case client.Send <- msgData:
			default:
				h.log.Warn().Str("client_id", client.ID.String()).Msg("failed to send room users")
			}
		}
	}
}

// notifyProfileStatus уведомляет о статусе профиля
func (h *Hub) notifyProfileStatus(profileID uuid.UUID, status MessageType) {
	msg := Message{
		Type:      status,
		ProfileID: profileID,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(msg); err == nil {
		for _, client := range h.clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{
		Type:      TypePing,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(msg); err == nil {
		for _, client := range h.clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// GetRoomProfiles возвращает список профилей, подключённых к комнате
func (h *Hub) GetRoomProfiles(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	if room, ok := h.rooms[roomID]; ok {
		for _, client := range room {
			seen[client.ProfileID] = true
		}
	}

	profiles := make([]uuid.UUID, 0, len(seen))
	for profileID := range seen {
		profiles = append(profiles, profileID)
	}
	return profiles
}
