package handlers

import (
	"encoding/json"

	"github.com/thereayou/cofoundry/internal/chat"
	"github.com/thereayou/cofoundry/internal/database"
	"github.com/thereayou/cofoundry/internal/handlers/dto"
	"github.com/thereayou/cofoundry/internal/websocket"
)

// MessageHandler обрабатывает чат-кадры, пришедшие по WebSocket
type MessageHandler struct {
	db   *database.Database
	chat *chat.Service
	hub  *websocket.Hub
}

func NewMessageHandler(db *database.Database, chatSvc *chat.Service, hub *websocket.Hub) *MessageHandler {
	return &MessageHandler{db: db, chat: chatSvc, hub: hub}
}

func (h *MessageHandler) HandleMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypeMessage:
		return h.handleTextMessage(client, msg)

	case websocket.TypeTyping:
		return h.handleTyping(client, msg)

	case websocket.TypeRead:
		return h.handleRead(client, msg)

	default:
		return nil
	}
}

// handleTextMessage проводит сообщение через тот же пайплайн, что и HTTP
func (h *MessageHandler) handleTextMessage(client *websocket.Client, msg *websocket.Message) error {
	if msg.RoomID == nil {
		return websocket.ErrInvalidMessage
	}

	if !client.IsInRoom(*msg.RoomID) {
		return websocket.ErrNotInRoom
	}

	var payload dto.SendMessageRequest
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return err
	}

	profile, err := h.db.GetProfile(client.ProfileID.String())
	if err != nil {
		return err
	}

	room, err := h.db.GetRoom(msg.RoomID.String())
	if err != nil {
		return websocket.ErrRoomNotFound
	}

	stored, err := h.chat.Send(payload.Content, profile, room)
	if err != nil {
		return err
	}

	h.hub.BroadcastEvent(room.ID, websocket.TypeMessage, client.ProfileID, stored)

	go h.db.UpdateLastSeen(client.ProfileID.String())

	return nil
}

// handleTyping ретранслирует "я печатаю" остальным участникам комнаты
func (h *MessageHandler) handleTyping(client *websocket.Client, msg *websocket.Message) error {
	if msg.RoomID == nil {
		return websocket.ErrInvalidMessage
	}

	if !client.IsInRoom(*msg.RoomID) {
		return websocket.ErrNotInRoom
	}

	var payload dto.TypingPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return err
	}

	h.hub.BroadcastEvent(*msg.RoomID, websocket.TypeTyping, client.ProfileID, payload)

	return nil
}

// handleRead помечает сообщение прочитанным и рассылает квитанцию
func (h *MessageHandler) handleRead(client *websocket.Client, msg *websocket.Message) error {
	if msg.RoomID == nil {
		return websocket.ErrInvalidMessage
	}

	if !client.IsInRoom(*msg.RoomID) {
		return websocket.ErrNotInRoom
	}

	var payload dto.ReadPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return err
	}

	h.chat.MarkRead(*msg.RoomID, payload.MessageID)

	if err := h.db.MarkMessageRead(msg.RoomID.String(), payload.MessageID.String()); err != nil {
		return err
	}

	h.hub.BroadcastEvent(*msg.RoomID, websocket.TypeRead, client.ProfileID, payload)

	return nil
}
