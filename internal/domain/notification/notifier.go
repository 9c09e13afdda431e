package notification

import "time"

// Handle addresses a notification created by CreatePending so it can be
// updated or dismissed in place. The zero value means no notification.
type Handle string

type Level string

const (
	LevelPending Level = "pending"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier is the user-facing message boundary. Updating a handle replaces the
// message in place instead of stacking a new one.
type Notifier interface {
	CreatePending(message string) Handle
	UpdateToSuccess(h Handle, message string)
	UpdateToError(h Handle, message string)

	// Error shows a standalone error that is not tied to any handle.
	Error(message string)

	Dismiss(h Handle)
}

// Toast is the state of one notification as last reported.
type Toast struct {
	Handle    Handle    `json:"handle"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}
