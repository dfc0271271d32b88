package database

import (
	"github.com/thereayou/cofoundry/internal/models"
)

func (d *Database) CreateProject(project *models.Project) error {
	return d.db.Create(project).Error
}

func (d *Database) GetProject(id string) (*models.Project, error) {
	var project models.Project
	if err := d.db.Preload("Founder").First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (d *Database) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	err := d.db.Preload("Founder").Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (d *Database) UpdateProject(project *models.Project) error {
	return d.db.Save(project).Error
}

func (d *Database) DeleteProject(id string) error {
	return d.db.Delete(&models.Project{}, "id = ?", id).Error
}

func (d *Database) CreateApplication(app *models.Application) error {
	return d.db.Create(app).Error
}

func (d *Database) GetApplication(id string) (*models.Application, error) {
	var app models.Application
	if err := d.db.Preload("Project").Preload("Applicant").First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (d *Database) ListProjectApplications(projectID string) ([]models.Application, error) {
	var apps []models.Application
	err := d.db.
		Where("project_id = ?", projectID).
		Preload("Applicant").
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (d *Database) ListProfileApplications(profileID string) ([]models.Application, error) {
	var apps []models.Application
	err := d.db.
		Where("applicant_id = ?", profileID).
		Preload("Project").
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (d *Database) UpdateApplicationStatus(id, status string) error {
	return d.db.Model(&models.Application{}).Where("id = ?", id).Update("status", status).Error
}
