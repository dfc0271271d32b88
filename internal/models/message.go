package models

import (
	"github.com/google/uuid"
	"time"
)

// ChatMessage — запись сообщения в Postgres. ID приходит от клиента
// (provisional id из пайплайна отправки), поэтому без default.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"not null;index"`
	SenderID  uuid.UUID `gorm:"not null"`
	Content   string    `gorm:"not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time

	// Связи
	Sender Profile `gorm:"foreignKey:SenderID"`
	Room   Room    `gorm:"foreignKey:RoomID"`
}
