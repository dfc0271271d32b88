package models

import (
	"github.com/google/uuid"
	"time"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	FounderID   uuid.UUID `gorm:"not null"`
	CreatedAt   time.Time

	// Связи
	Founder Profile `gorm:"foreignKey:FounderID"`
}

type Application struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID   uuid.UUID `gorm:"not null;index"`
	ApplicantID uuid.UUID `gorm:"not null"`
	Pitch       string    `gorm:"not null"`
	Status      string    `gorm:"not null;default:'pending';check:status IN ('pending','accepted','rejected')"`
	CreatedAt   time.Time

	// Связи
	Project   Project `gorm:"foreignKey:ProjectID"`
	Applicant Profile `gorm:"foreignKey:ApplicantID"`
}
