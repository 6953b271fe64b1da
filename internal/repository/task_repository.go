package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a new task, assigning its ID and defaults: an empty
// priority becomes low, an empty project reference means Inbox.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Priority = task.Priority.Normalized()
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Save persists changes to an existing task.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// ListAll returns every task, ordered by creation time. The planner
// engines take this snapshot as input; ordering inside views is theirs.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListDueBetween returns incomplete tasks with a reminder or due date
// inside the window, for reminder delivery.
func (r *TaskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("completed_at IS NULL").
		Where("(remind_at >= ? AND remind_at < ?) OR (due_date >= ? AND due_date < ?)", from, to, from, to).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes a task immediately. There is no tombstone.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return nil
}
