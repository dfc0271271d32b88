package database

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/thereayou/cofoundry/internal/models"
)

// SaveChatMessage подтверждает сообщение из пайплайна отправки.
// Id генерирует клиентская сторона, поэтому повторная попытка после
// сбоя не плодит дублей: конфликт по первичному ключу игнорируется.
func (d *Database) SaveChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(msg).Error
}

// GetRoomMessages отдаёт сохранённую историю комнаты в порядке записи.
// Чат-ядро греет ей свой лог при первом обращении к комнате.
func (d *Database) GetRoomMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	err := d.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error

	if err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkMessageRead дублирует флаг прочтения в запись. Идемпотентно.
func (d *Database) MarkMessageRead(roomID, messageID string) error {
	return d.db.Model(&models.ChatMessage{}).
		Where("id = ? AND room_id = ? AND is_read = false", messageID, roomID).
		Update("is_read", true).Error
}
