package models

import (
	"github.com/google/uuid"
	"time"
)

const (
	RoleFounder = "founder"
	RoleMember  = "member"
)

type Profile struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"not null"`
	Email         string    `gorm:"uniqueIndex;not null"`
	PasswordHash  string    `gorm:"not null"`
	RoleType      string    `gorm:"not null;check:role_type IN ('founder','member')"`
	EmailVerified bool      `gorm:"not null;default:false"`
	Headline      string
	AvatarURL     string
	LastSeenAt    time.Time
	CreatedAt     time.Time
}
