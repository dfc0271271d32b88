package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/cofoundry/internal/database"
	"github.com/thereayou/cofoundry/internal/handlers/dto"
	"github.com/thereayou/cofoundry/internal/middleware"
	"github.com/thereayou/cofoundry/internal/models"
)

type ProjectHandler struct {
	db *database.Database
}

func NewProjectHandler(db *database.Database) *ProjectHandler {
	return &ProjectHandler{db: db}
}

// CreateProject публикует проект и заводит его комнату
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	profile, err := h.db.GetProfile(profileID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	if profile.RoleType != models.RoleFounder {
		c.JSON(http.StatusForbidden, gin.H{"error": "only founders can create projects"})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		FounderID:   profileID,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateProject(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	room, err := h.db.CreateProjectRoom(project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          project.ID,
		"title":       project.Title,
		"description": project.Description,
		"founder_id":  project.FounderID,
		"created_at":  project.CreatedAt,
		"room_id":     room.ID,
	})
}

// ListProjects возвращает ленту проектов
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.db.ListProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	result := make([]gin.H, len(projects))
	for i, p := range projects {
		result[i] = formatProjectResponse(&p)
	}

	c.JSON(http.StatusOK, gin.H{"projects": result})
}

// GetProject возвращает проект по ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.db.GetProject(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, formatProjectResponse(project))
}

// UpdateProject обновляет проект (только основатель)
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	project, err := h.db.GetProject(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	if project.FounderID != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only project founder can update project"})
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Обновляем только переданные поля
	if req.Title != "" {
		project.Title = req.Title
	}
	if req.Description != "" {
		project.Description = req.Description
	}

	if err := h.db.UpdateProject(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}

	c.JSON(http.StatusOK, formatProjectResponse(project))
}

// Apply подаёт заявку участника на проект
func (h *ProjectHandler) Apply(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)
	projectID := c.Param("id")

	project, err := h.db.GetProject(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	if project.FounderID == profileID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot apply to your own project"})
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app := &models.Application{
		ProjectID:   project.ID,
		ApplicantID: profileID,
		Pitch:       req.Pitch,
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateApplication(app); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         app.ID,
		"project_id": app.ProjectID,
		"status":     app.Status,
		"created_at": app.CreatedAt,
	})
}

// ListApplications возвращает заявки проекта (только основатель)
func (h *ProjectHandler) ListApplications(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)
	projectID := c.Param("id")

	project, err := h.db.GetProject(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	if project.FounderID != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only project founder can view applications"})
		return
	}

	apps, err := h.db.ListProjectApplications(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}

	result := make([]gin.H, len(apps))
	for i, a := range apps {
		result[i] = gin.H{
			"id":     a.ID,
			"pitch":  a.Pitch,
			"status": a.Status,
			"applicant": gin.H{
				"id":         a.Applicant.ID,
				"name":       a.Applicant.Name,
				"headline":   a.Applicant.Headline,
				"avatar_url": a.Applicant.AvatarURL,
			},
			"created_at": a.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"applications": result})
}

// ListMyApplications возвращает заявки текущего профиля
func (h *ProjectHandler) ListMyApplications(c *gin.Context) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)

	apps, err := h.db.ListProfileApplications(profileID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}

	result := make([]gin.H, len(apps))
	for i, a := range apps {
		result[i] = gin.H{
			"id":         a.ID,
			"pitch":      a.Pitch,
			"status":     a.Status,
			"project":    gin.H{"id": a.Project.ID, "title": a.Project.Title},
			"created_at": a.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"applications": result})
}

// AcceptApplication принимает заявку и впускает участника в комнату проекта
func (h *ProjectHandler) AcceptApplication(c *gin.Context) {
	h.resolveApplication(c, models.ApplicationAccepted)
}

// RejectApplication отклоняет заявку
func (h *ProjectHandler) RejectApplication(c *gin.Context) {
	h.resolveApplication(c, models.ApplicationRejected)
}

func (h *ProjectHandler) resolveApplication(c *gin.Context, status string) {
	profileID := c.MustGet(middleware.ProfileIDKey).(uuid.UUID)
	appID := c.Param("id")

	app, err := h.db.GetApplication(appID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	if app.Project.FounderID != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only project founder can resolve applications"})
		return
	}

	if app.Status != models.ApplicationPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "application already resolved"})
		return
	}

	if err := h.db.UpdateApplicationStatus(appID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update application"})
		return
	}

	if status == models.ApplicationAccepted {
		room, err := h.db.GetProjectRoom(app.ProjectID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "project room not found"})
			return
		}

		if err := h.db.AddProfileToRoom(app.ApplicantID.String(), room.ID.String()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add applicant to room"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"id": app.ID, "status": status})
}

// formatProjectResponse форматирует ответ для проекта
func formatProjectResponse(project *models.Project) gin.H {
	return gin.H{
		"id":          project.ID,
		"title":       project.Title,
		"description": project.Description,
		"created_at":  project.CreatedAt,
		"founder": gin.H{
			"id":         project.Founder.ID,
			"name":       project.Founder.Name,
			"avatar_url": project.Founder.AvatarURL,
		},
	}
}
