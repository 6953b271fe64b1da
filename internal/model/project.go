package model

import (
	"strings"
	"time"
)

// InboxName is the reserved default project. Exactly one project with
// this name (case-insensitive) exists at all times; it can not be
// renamed or deleted, and tasks without a project belong to it.
const InboxName = "Inbox"

// Project groups tasks under a named bucket.
type Project struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	Details   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectKey normalizes a project name for case-insensitive comparison
// and grouping.
func ProjectKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsInboxName reports whether name refers to the reserved Inbox
// project. This is the single place the reserved identity is checked.
func IsInboxName(name string) bool {
	return ProjectKey(name) == ProjectKey(InboxName)
}

// IsInbox reports whether the project is the reserved Inbox.
func (p Project) IsInbox() bool {
	return IsInboxName(p.Name)
}
