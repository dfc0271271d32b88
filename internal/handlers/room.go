package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/cofoundry/internal/chat"
	"github.com/thereayou/cofoundry/internal/database"
	"github.com/thereayou/cofoundry/internal/middleware"
	"github.com/thereayou/cofoundry/internal/models"
	"github.com/thereayou/cofoundry/internal/websocket"
)

type RoomHandler struct {
	db   *database.Database
	chat *chat.Service
	hub  *websocket.Hub
}

func NewRoomHandler(db *database.Database, chatSvc *chat.Service, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{db: db, chat: chatSvc, hub: hub}
}

// CreateDirectRoom создает или получает direct комнату между двумя профилями
func (h *RoomHandler) CreateDirectRoom(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	var req struct {
		ProfileID string `json:"profile_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	if profileID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot create direct room with yourself"})
		return
	}

	room, err := h.db.GetOrCreateDirectRoom(profileID, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create direct room"})
		return
	}

	c.JSON(http.StatusOK, formatRoomResponse(room))
}

// GetMyRooms получает список комнат профиля с превью последнего сообщения
func (h *RoomHandler) GetMyRooms(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	rooms, err := h.db.GetProfileRooms(profileID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rooms"})
		return
	}

	roomsResponse := make([]gin.H, len(rooms))
	for i, room := range rooms {
		roomResponse := formatRoomResponse(&room)

		// Последнее сообщение — из лога чат-ядра
		if groups := h.chat.GetTimeline(room.ID); len(groups) > 0 {
			last := groups[len(groups)-1].Messages
			if len(last) > 0 {
				m := last[len(last)-1]
				roomResponse["last_message"] = gin.H{
					"id":          m.ID,
					"content":     m.Content,
					"sender_id":   m.SenderID,
					"sender_name": m.SenderName,
					"created_at":  m.CreatedAt,
				}
			}
		}

		roomResponse["online_count"] = len(h.hub.GetRoomProfiles(room.ID))

		roomsResponse[i] = roomResponse
	}

	c.JSON(http.StatusOK, gin.H{"rooms": roomsResponse})
}

// GetRoom получает информацию о комнате вместе с вердиктом на отправку
func (h *RoomHandler) GetRoom(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, profile, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	response := formatRoomResponse(room)
	response["online_profiles"] = h.hub.GetRoomProfiles(room.ID)
	response["sendability"] = h.chat.GetSendability(profile, room)

	c.JSON(http.StatusOK, response)
}

// ArchiveRoom переводит комнату в режим только-чтение
func (h *RoomHandler) ArchiveRoom(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveRoom снимает архивацию
func (h *RoomHandler) UnarchiveRoom(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *RoomHandler) setArchived(c *gin.Context, archived bool) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)
	roomID := c.Param("id")

	room, err := h.db.GetRoom(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	// Архивацией владеет создатель комнаты
	if room.CreatedBy != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only room creator can archive room"})
		return
	}

	if err := h.db.SetArchived(roomID, archived); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": room.ID, "is_archived": archived})
}

// LeaveRoom удаляет профиль из project-комнаты
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)
	roomID := c.Param("id")

	room, err := h.db.GetRoom(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	if room.Type == models.RoomTypeDirect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot leave direct room"})
		return
	}

	if room.CreatedBy == profileID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room creator cannot leave room"})
		return
	}

	if err := h.db.RemoveProfileFromRoom(profileID.String(), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to leave room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left room successfully"})
}

// GetRoomMembers получает список участников комнаты
func (h *RoomHandler) GetRoomMembers(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	room, _, ok := loadRoomForMember(c, h.db, profileID)
	if !ok {
		return
	}

	members := make([]gin.H, len(room.Members))
	online := h.hub.GetRoomProfiles(room.ID)

	for i, member := range room.Members {
		isOnline := false
		for _, onlineID := range online {
			if onlineID == member.ID {
				isOnline = true
				break
			}
		}

		members[i] = gin.H{
			"id":           member.ID,
			"name":         member.Name,
			"role_type":    member.RoleType,
			"avatar_url":   member.AvatarURL,
			"last_seen_at": member.LastSeenAt,
			"is_online":    isOnline,
			"is_creator":   member.ID == room.CreatedBy,
		}
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// loadRoomForMember достаёт комнату и профиль, проверяя членство.
// При отказе сам пишет ответ и возвращает ok=false.
func loadRoomForMember(c *gin.Context, db *database.Database, profileID uuid.UUID) (*models.Room, *models.Profile, bool) {
	room, err := db.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return nil, nil, false
	}

	isMember := false
	for _, member := range room.Members {
		if member.ID == profileID {
			isMember = true
			break
		}
	}

	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this room"})
		return nil, nil, false
	}

	profile, err := db.GetProfile(profileID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return nil, nil, false
	}

	return room, profile, true
}

// formatRoomResponse форматирует ответ для комнаты
func formatRoomResponse(room *models.Room) gin.H {
	members := make([]gin.H, len(room.Members))
	for i, member := range room.Members {
		members[i] = gin.H{
			"id":         member.ID,
			"name":       member.Name,
			"avatar_url": member.AvatarURL,
		}
	}

	response := gin.H{
		"id":            room.ID,
		"name":          room.Name,
		"type":          room.Type,
		"is_archived":   room.IsArchived,
		"members_count": room.MembersCount,
		"created_by":    room.CreatedBy,
		"created_at":    room.CreatedAt,
		"members":       members,
	}

	if room.ProjectID != nil {
		response["project_id"] = room.ProjectID
	}

	return response
}
