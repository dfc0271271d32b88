package models

import (
	"github.com/google/uuid"
	"time"
)

const (
	RoomTypeProject = "project"
	RoomTypeDirect  = "direct"
)

type Room struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"not null"`
	Type         string     `gorm:"not null;check:type IN ('project','direct')"`
	ProjectID    *uuid.UUID // только для project-комнат, у direct всегда nil
	IsArchived   bool       `gorm:"not null;default:false"`
	MembersCount int        `gorm:"not null;default:0"`
	CreatedBy    uuid.UUID
	CreatedAt    time.Time

	// Связи
	Members []Profile `gorm:"many2many:room_members"`
}
