package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is absent or owned by another
	// user. The two cases are deliberately indistinguishable so that task
	// existence never leaks to non-owners.
	ErrTaskNotFound = errors.New("task not found")

	// ErrConversationNotFound follows the same policy for conversations.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrValidation wraps all field validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when an insert trips the unique index
	// on users.email, covering registrations that race the pre-check.
	ErrDuplicateEmail = errors.New("email already registered")
)
