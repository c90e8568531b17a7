package models

import (
	"strings"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	// ID is assigned by the store. IDs increase with creation order, so sorting
	// by ID gives the order in which tasks were added.
	ID int64

	// OwnerID is the user ID of the account that owns this task.
	// It is set once at creation and never rewritten.
	OwnerID string

	// Text is the user-supplied task description (stored trimmed).
	Text string

	// CreatedAt is when the store accepted the row. Zero when the backend
	// does not report it.
	CreatedAt time.Time
}

// NormalizeText trims surrounding whitespace from task text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}
