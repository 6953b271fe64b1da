package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskInput represents data required to create a task. Nil pointers
// leave the corresponding field at its default.
type TaskInput struct {
	Name     string
	Details  string
	DueDate  *time.Time
	RemindAt *time.Time
	Priority *model.Priority // nil means the default, low
	Kind     model.Kind
	Project  string // project name; empty means Inbox
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, projectRepo *repository.ProjectRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, projectRepo: projectRepo}
}

// CreateTask validates input and stores a new task. New tasks default
// to low priority and land in Inbox unless a project is named.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, repository.ErrEmptyName
	}

	priority := model.PriorityLow
	if input.Priority != nil {
		priority = input.Priority.Normalized()
	}

	task := model.Task{
		Name:     name,
		Details:  input.Details,
		DueDate:  input.DueDate,
		RemindAt: input.RemindAt,
		Priority: priority,
		Kind:     input.Kind,
	}

	if input.Project != "" && !model.IsInboxName(input.Project) {
		project, err := s.projectRepo.FindByName(ctx, input.Project)
		if err != nil {
			return nil, err
		}
		task.ProjectID = project.ID
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// EditTask updates name and details.
func (s *TaskService) EditTask(ctx context.Context, taskID, name, details string) (*model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, repository.ErrEmptyName
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Name = name
	task.Details = details
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask marks a task done at the given instant. Completing an
// already-completed task keeps the original completion time.
func (s *TaskService) CompleteTask(ctx context.Context, taskID string, completedAt time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Completed() {
		return task, nil
	}
	task.CompletedAt = &completedAt
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ReopenTask clears completion.
func (s *TaskService) ReopenTask(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.CompletedAt = nil
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// RescheduleTask changes the due date; nil clears it.
func (s *TaskService) RescheduleTask(ctx context.Context, taskID string, due *time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.DueDate = due
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetPriority reassigns the task's priority.
func (s *TaskService) SetPriority(ctx context.Context, taskID string, p model.Priority) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Priority = p.Normalized()
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// MoveTask reassigns the task to the named project.
func (s *TaskService) MoveTask(ctx context.Context, taskID, projectName string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if projectName == "" || model.IsInboxName(projectName) {
		task.ProjectID = ""
	} else {
		project, err := s.projectRepo.FindByName(ctx, projectName)
		if err != nil {
			return nil, err
		}
		task.ProjectID = project.ID
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task permanently.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	return s.taskRepo.Delete(ctx, taskID)
}

func (s *TaskService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID)
}

// Snapshot loads the inputs the planner engines work on.
func (s *TaskService) Snapshot(ctx context.Context) ([]model.Task, []model.Project, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot tasks: %w", err)
	}
	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot projects: %w", err)
	}
	return tasks, projects, nil
}
