package dto

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=120"`
	Description string `json:"description" binding:"max=4000"`
}

type UpdateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ApplyRequest struct {
	Pitch string `json:"pitch" binding:"required,min=10,max=2000"`
}
