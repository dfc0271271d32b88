package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/cofoundry/internal/models"
)

func (d *Database) CreateRoom(room *models.Room) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoom(id string) (*models.Room, error) {
	var room models.Room
	if err := d.db.Preload("Members").First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetProfileRooms(profileID string) ([]models.Room, error) {
	var rooms []models.Room

	err := d.db.
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.profile_id = ?", profileID).
		Preload("Members").
		Find(&rooms).Error

	return rooms, err
}

// SetArchived переводит комнату в режим только-чтение и обратно.
// Само ограничение применяет политика доступа при каждой отправке.
func (d *Database) SetArchived(id string, archived bool) error {
	return d.db.Model(&models.Room{}).Where("id = ?", id).Update("is_archived", archived).Error
}

func (d *Database) AddProfileToRoom(profileID, roomID string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		var room models.Room

		if err := tx.First(&profile, "id = ?", profileID).Error; err != nil {
			return err
		}

		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			return err
		}

		if err := tx.Model(&room).Association("Members").Append(&profile); err != nil {
			return err
		}

		count := tx.Model(&room).Association("Members").Count()
		return tx.Model(&room).Update("members_count", count).Error
	})
}

func (d *Database) RemoveProfileFromRoom(profileID, roomID string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		var room models.Room

		if err := tx.First(&profile, "id = ?", profileID).Error; err != nil {
			return err
		}

		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			return err
		}

		if err := tx.Model(&room).Association("Members").Delete(&profile); err != nil {
			return err
		}

		count := tx.Model(&room).Association("Members").Count()
		return tx.Model(&room).Update("members_count", count).Error
	})
}

// GetOrCreateDirectRoom ищет direct-комнату между двумя профилями или
// создаёт новую. У direct-комнаты никогда нет project_id.
func (d *Database) GetOrCreateDirectRoom(profile1ID, profile2ID uuid.UUID) (*models.Room, error) {
	var room models.Room

	err := d.db.
		Joins("JOIN room_members rm1 ON rm1.room_id = rooms.id").
		Joins("JOIN room_members rm2 ON rm2.room_id = rooms.id").
		Where("rooms.type = 'direct' AND rm1.profile_id = ? AND rm2.profile_id = ?", profile1ID, profile2ID).
		First(&room).Error

	if err == nil {
		return &room, nil
	}

	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	room = models.Room{
		Name:      "Direct",
		Type:      models.RoomTypeDirect,
		CreatedBy: profile1ID,
		CreatedAt: time.Now(),
	}

	if err := d.db.Create(&room).Error; err != nil {
		return nil, err
	}

	if err := d.AddProfileToRoom(profile1ID.String(), room.ID.String()); err != nil {
		return nil, err
	}

	if err := d.AddProfileToRoom(profile2ID.String(), room.ID.String()); err != nil {
		return nil, err
	}

	d.db.Model(&room).Association("Members").Find(&room.Members)

	return &room, nil
}

// CreateProjectRoom заводит комнату проекта с основателем внутри.
func (d *Database) CreateProjectRoom(project *models.Project) (*models.Room, error) {
	room := models.Room{
		Name:      project.Title,
		Type:      models.RoomTypeProject,
		ProjectID: &project.ID,
		CreatedBy: project.FounderID,
		CreatedAt: time.Now(),
	}

	if err := d.db.Create(&room).Error; err != nil {
		return nil, err
	}

	if err := d.AddProfileToRoom(project.FounderID.String(), room.ID.String()); err != nil {
		return nil, err
	}

	return &room, nil
}

func (d *Database) GetProjectRoom(projectID string) (*models.Room, error) {
	var room models.Room
	if err := d.db.Preload("Members").First(&room, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) DeleteRoom(id string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChatMessage{}, "room_id = ?", id).Error; err != nil {
			return err
		}

		var room models.Room
		if err := tx.First(&room, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&room).Association("Members").Clear(); err != nil {
			return err
		}

		return tx.Delete(&room).Error
	})
}
