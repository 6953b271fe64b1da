package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// ProjectRepository manages projects and owns the two invariants the
// rest of the system relies on: names are unique case-insensitively,
// and Inbox always exists, can not be renamed, and can not be deleted.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create stores a new project. The reserved Inbox name is rejected:
// the single Inbox row is seeded at migration, never user-created.
func (r *ProjectRepository) Create(ctx context.Context, name, details string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if model.IsInboxName(name) {
		return nil, ErrReservedProject
	}

	db := r.db.WithContext(ctx)
	if taken, err := r.nameTaken(db, name, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("project %q: %w", name, ErrNameTaken)
	}

	project := model.Project{ID: uuid.NewString(), Name: name, Details: details}
	if err := db.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}

// Rename changes a project's name under the same guards as Create.
func (r *ProjectRepository) Rename(ctx context.Context, projectID, newName string) (*model.Project, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrEmptyName
	}
	if model.IsInboxName(newName) {
		return nil, ErrReservedProject
	}

	db := r.db.WithContext(ctx)
	project, err := r.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsInbox() {
		return nil, ErrReservedProject
	}
	if taken, err := r.nameTaken(db, newName, projectID); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("project %q: %w", newName, ErrNameTaken)
	}

	project.Name = newName
	if err := db.Save(project).Error; err != nil {
		return nil, fmt.Errorf("rename project: %w", err)
	}
	return project, nil
}

// Delete removes a non-Inbox project. Its tasks are reassigned to
// Inbox in the same transaction, so no task is ever left pointing at a
// project that no longer exists.
func (r *ProjectRepository) Delete(ctx context.Context, projectID string) error {
	project, err := r.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.IsInbox() {
		return ErrReservedProject
	}

	inbox, err := r.Inbox(ctx)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).
			Where("project_id = ?", projectID).
			Update("project_id", inbox.ID).Error; err != nil {
			return fmt.Errorf("reassign tasks to inbox: %w", err)
		}
		if err := tx.Where("id = ?", projectID).Delete(&model.Project{}).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
}

func (r *ProjectRepository) FindByID(ctx context.Context, projectID string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &project, nil
}

// FindByName looks a project up by its case-insensitive name.
func (r *ProjectRepository) FindByName(ctx context.Context, name string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", model.ProjectKey(name)).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &project, nil
}

// Inbox returns the reserved project.
func (r *ProjectRepository) Inbox(ctx context.Context) (*model.Project, error) {
	return r.FindByName(ctx, model.InboxName)
}

// ListAll returns every project, Inbox included.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) nameTaken(db *gorm.DB, name, excludeID string) (bool, error) {
	var count int64
	q := db.Model(&model.Project{}).Where("LOWER(name) = ?", model.ProjectKey(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check project name: %w", err)
	}
	return count > 0, nil
}
