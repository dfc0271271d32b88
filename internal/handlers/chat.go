package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/cofoundry/internal/chat"
	"github.com/thereayou/cofoundry/internal/database"
	"github.com/thereayou/cofoundry/internal/handlers/dto"
	"github.com/thereayou/cofoundry/internal/middleware"
	"github.com/thereayou/cofoundry/internal/websocket"
)

type ChatHandler struct {
	db   *database.Database
	chat *chat.Service
	hub  *websocket.Hub
}

func NewChatHandler(db *database.Database, chatSvc *chat.Service, hub *websocket.Hub) *ChatHandler {
	return &ChatHandler{db: db, chat: chatSvc, hub: hub}
}

// GetTimeline отдаёт историю комнаты, разбитую по дням и сгруппированную
// по отправителям. Пустая комната — пустой список, не ошибка.
func (h *ChatHandler) GetTimeline(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, _, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	groups := h.chat.GetTimeline(room.ID)
	if groups == nil {
		groups = []chat.DateGroup{}
	}

	c.JSON(http.StatusOK, gin.H{"timeline": groups})
}

// GetSendability возвращает вердикт политики доступа для текущего профиля
func (h *ChatHandler) GetSendability(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, profile, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.chat.GetSendability(profile, room))
}

// SendMessage проводит сообщение через пайплайн отправки. Ответ
// возвращается сразу после оптимистичного append, подтверждение
// бэкендом идёт в фоне.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, profile, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chat.Send(req.Content, profile, room)
	if err != nil {
		writeSendError(c, err)
		return
	}

	h.hub.BroadcastEvent(room.ID, websocket.TypeMessage, profileID, msg)

	c.JSON(http.StatusCreated, msg)
}

// MarkRead помечает сообщение прочитанным (идемпотентно)
func (h *ChatHandler) MarkRead(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, _, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	messageID, err := uuid.Parse(c.Param("messageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	h.chat.MarkRead(room.ID, messageID)

	// Дублируем флаг в запись; сбой не критичен для таймлайна
	if err := h.db.MarkMessageRead(room.ID.String(), messageID.String()); err == nil {
		h.hub.BroadcastEvent(room.ID, websocket.TypeRead, profileID, dto.ReadPayload{MessageID: messageID})
	}

	c.Status(http.StatusOK)
}

// GetTyping возвращает сигнал "кто-то печатает" для комнаты
func (h *ChatHandler) GetTyping(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, _, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_typing": h.chat.TypingSignal(room.ID)})
}

// writeSendError переводит типизированные ошибки пайплайна в HTTP-ответы.
// UI получает конкретную причину, а не общую пятисотку.
func writeSendError(c *gin.Context, err error) {
	var accessErr *chat.AccessError
	switch {
	case errors.Is(err, chat.ErrEmptyContent):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "message content is empty"})
	case errors.As(err, &accessErr):
		c.JSON(http.StatusForbidden, gin.H{"error": "send not allowed", "reason": accessErr.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
	}
}
