package model

import "time"

// Priority orders tasks from least to most important.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityHigh
	PriorityMax
)

// Kind splits tasks into morning and evening routines.
type Kind int

const (
	KindMorning Kind = iota
	KindEvening
)

// Task represents a single item on the board.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Details     string
	DueDate     *time.Time
	Priority    Priority `gorm:"index"`
	Kind        Kind
	ProjectID   string `gorm:"index"` // empty means Inbox
	RemindAt    *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Completed reports whether the task is done. The completion flag is
// derived from CompletedAt, never stored separately, so the two can
// not disagree.
func (t Task) Completed() bool {
	return t.CompletedAt != nil
}

// DisplayName returns the task name, substituting a placeholder for
// legacy records with an empty name so no task disappears from a view.
func (t Task) DisplayName() string {
	if t.Name == "" {
		return "(untitled task)"
	}
	return t.Name
}

// Normalized returns p if it is one of the four known values and
// PriorityNone otherwise. Storage may contain out-of-range integers
// from older schema versions.
func (p Priority) Normalized() Priority {
	switch p {
	case PriorityNone, PriorityLow, PriorityHigh, PriorityMax:
		return p
	default:
		return PriorityNone
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityMax:
		return "max"
	default:
		return "none"
	}
}

// ParsePriority maps a user-facing name back to a Priority. Unknown
// names fail closed to PriorityNone.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "max":
		return PriorityMax
	default:
		return PriorityNone
	}
}

func (k Kind) String() string {
	if k == KindEvening {
		return "evening"
	}
	return "morning"
}
