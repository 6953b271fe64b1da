package service

import (
	"context"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// ProjectService provides the project lifecycle. Name uniqueness and
// the Inbox guards live in the repository; this layer only shapes the
// calls.
type ProjectService struct {
	repo *repository.ProjectRepository
}

func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) CreateProject(ctx context.Context, name, details string) (*model.Project, error) {
	return s.repo.Create(ctx, name, details)
}

func (s *ProjectService) RenameProject(ctx context.Context, projectID, newName string) (*model.Project, error) {
	return s.repo.Rename(ctx, projectID, newName)
}

// DeleteProject removes a project; its tasks move to Inbox first.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	return s.repo.Delete(ctx, projectID)
}

func (s *ProjectService) FindByName(ctx context.Context, name string) (*model.Project, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.repo.ListAll(ctx)
}
