package dto

import (
	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// TypingPayload — входящий кадр "я печатаю" от клиента по WebSocket
type TypingPayload struct {
	IsTyping bool `json:"is_typing"`
}

// ReadPayload — отметка о прочтении сообщения
type ReadPayload struct {
	MessageID uuid.UUID `json:"message_id"`
}
