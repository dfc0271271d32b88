package database

import (
	"time"

	"github.com/thereayou/cofoundry/internal/models"
)

func (d *Database) SaveProfile(profile *models.Profile) error {
	return d.db.Create(profile).Error
}

func (d *Database) UpdateProfile(profile *models.Profile) error {
	return d.db.Save(profile).Error
}

func (d *Database) GetProfile(id string) (*models.Profile, error) {
	profile := models.Profile{}
	if err := d.db.First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (d *Database) FindProfileByEmail(email string) (*models.Profile, error) {
	profile := models.Profile{}
	if err := d.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// MarkEmailVerified включает флаг верификации — вход политики доступа.
func (d *Database) MarkEmailVerified(id string) error {
	return d.db.Model(&models.Profile{}).Where("id = ?", id).Update("email_verified", true).Error
}

func (d *Database) UpdateLastSeen(id string) error {
	return d.db.Model(&models.Profile{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}
