package repository

import "errors"

var (
	// ErrNotFound means the requested task or project does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyName rejects blank task or project names.
	ErrEmptyName = errors.New("name is empty")
	// ErrNameTaken rejects a project name already in use, compared
	// case-insensitively.
	ErrNameTaken = errors.New("project name already taken")
	// ErrReservedProject guards the Inbox project against rename,
	// delete, and shadowing.
	ErrReservedProject = errors.New("inbox project is reserved")
)
