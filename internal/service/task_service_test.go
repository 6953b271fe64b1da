package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func newTestServices(t *testing.T) (*TaskService, *ProjectService) {
	t.Helper()
	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	return NewTaskService(taskRepo, projectRepo), NewProjectService(projectRepo)
}

func TestCreateTaskDefaults(t *testing.T) {
	taskSvc, _ := newTestServices(t)
	ctx := context.Background()

	task, err := taskSvc.CreateTask(ctx, TaskInput{Name: "  buy milk  "})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Name != "buy milk" {
		t.Fatalf("name = %q, want trimmed", task.Name)
	}
	if task.Priority != model.PriorityLow {
		t.Fatalf("priority = %v, want the default low", task.Priority)
	}
	if task.ProjectID != "" {
		t.Fatalf("project = %q, want empty (Inbox)", task.ProjectID)
	}
	if task.Completed() {
		t.Fatalf("new task should not be complete")
	}

	if _, err := taskSvc.CreateTask(ctx, TaskInput{Name: "   "}); !errors.Is(err, repository.ErrEmptyName) {
		t.Fatalf("blank name error = %v, want ErrEmptyName", err)
	}
}

func TestCreateTaskInNamedProject(t *testing.T) {
	taskSvc, projectSvc := newTestServices(t)
	ctx := context.Background()

	work, err := projectSvc.CreateProject(ctx, "Work", "")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	max := model.PriorityMax
	task, err := taskSvc.CreateTask(ctx, TaskInput{Name: "ship release", Project: "work", Priority: &max})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ProjectID != work.ID {
		t.Fatalf("project = %q, want %q (name matched case-insensitively)", task.ProjectID, work.ID)
	}
	if task.Priority != model.PriorityMax {
		t.Fatalf("priority = %v, want max", task.Priority)
	}

	if _, err := taskSvc.CreateTask(ctx, TaskInput{Name: "x", Project: "Nope"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown project error = %v, want ErrNotFound", err)
	}
}

func TestCompleteKeepsFirstTimestampAndReopenClears(t *testing.T) {
	taskSvc, _ := newTestServices(t)
	ctx := context.Background()

	task, err := taskSvc.CreateTask(ctx, TaskInput{Name: "water plants"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	first := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	done, err := taskSvc.CompleteTask(ctx, task.ID, first)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(first) {
		t.Fatalf("completed at = %v, want %v", done.CompletedAt, first)
	}

	again, err := taskSvc.CompleteTask(ctx, task.ID, first.Add(time.Hour))
	if err != nil {
		t.Fatalf("complete twice: %v", err)
	}
	if !again.CompletedAt.Equal(first) {
		t.Fatalf("completed at moved to %v, want original %v", again.CompletedAt, first)
	}

	reopened, err := taskSvc.ReopenTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Completed() {
		t.Fatalf("task still complete after reopen")
	}
}

func TestMoveTaskBetweenProjects(t *testing.T) {
	taskSvc, projectSvc := newTestServices(t)
	ctx := context.Background()

	work, err := projectSvc.CreateProject(ctx, "Work", "")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := taskSvc.CreateTask(ctx, TaskInput{Name: "report"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	moved, err := taskSvc.MoveTask(ctx, task.ID, "Work")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.ProjectID != work.ID {
		t.Fatalf("project = %q, want %q", moved.ProjectID, work.ID)
	}

	back, err := taskSvc.MoveTask(ctx, task.ID, "inbox")
	if err != nil {
		t.Fatalf("move to inbox: %v", err)
	}
	if back.ProjectID != "" {
		t.Fatalf("project = %q, want empty for Inbox", back.ProjectID)
	}
}

func TestRescheduleAndPriority(t *testing.T) {
	taskSvc, _ := newTestServices(t)
	ctx := context.Background()

	task, err := taskSvc.CreateTask(ctx, TaskInput{Name: "dentist"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	due := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	moved, err := taskSvc.RescheduleTask(ctx, task.ID, &due)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.DueDate == nil || !moved.DueDate.Equal(due) {
		t.Fatalf("due = %v, want %v", moved.DueDate, due)
	}

	cleared, err := taskSvc.RescheduleTask(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("clear due: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("due = %v, want cleared", cleared.DueDate)
	}

	bumped, err := taskSvc.SetPriority(ctx, task.ID, model.PriorityMax)
	if err != nil {
		t.Fatalf("set priority: %v", err)
	}
	if bumped.Priority != model.PriorityMax {
		t.Fatalf("priority = %v, want max", bumped.Priority)
	}
}

func TestSnapshotReturnsTasksAndProjects(t *testing.T) {
	taskSvc, projectSvc := newTestServices(t)
	ctx := context.Background()

	if _, err := projectSvc.CreateProject(ctx, "Work", ""); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := taskSvc.CreateTask(ctx, TaskInput{Name: "a"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, projects, err := taskSvc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if len(projects) != 2 { // Inbox + Work
		t.Fatalf("projects = %d, want 2", len(projects))
	}
}
