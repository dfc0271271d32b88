package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/cofoundry/internal/database"
	"github.com/thereayou/cofoundry/internal/middleware"
)

type ProfileHandler struct {
	db *database.Database
}

func NewProfileHandler(db *database.Database) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetMe возвращает информацию о текущем профиле
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	profile, err := h.db.GetProfile(profileID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             profile.ID,
		"name":           profile.Name,
		"email":          profile.Email,
		"role_type":      profile.RoleType,
		"email_verified": profile.EmailVerified,
		"headline":       profile.Headline,
		"avatar_url":     profile.AvatarURL,
		"created_at":     profile.CreatedAt,
		"last_seen_at":   profile.LastSeenAt,
	})
}

// UpdateMe обновляет информацию текущего профиля
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	var req struct {
		Name      string `json:"name"`
		Headline  string `json:"headline"`
		AvatarURL string `json:"avatar_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.db.GetProfile(profileID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	// Обновляем только переданные поля
	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Headline != "" {
		profile.Headline = req.Headline
	}
	if req.AvatarURL != "" {
		profile.AvatarURL = req.AvatarURL
	}

	if err := h.db.UpdateProfile(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         profile.ID,
		"name":       profile.Name,
		"headline":   profile.Headline,
		"avatar_url": profile.AvatarURL,
	})
}

// GetProfile возвращает публичную информацию о профиле по ID
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profileID := c.Param("id")

	profile, err := h.db.GetProfile(profileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           profile.ID,
		"name":         profile.Name,
		"role_type":    profile.RoleType,
		"headline":     profile.Headline,
		"avatar_url":   profile.AvatarURL,
		"last_seen_at": profile.LastSeenAt,
	})
}
