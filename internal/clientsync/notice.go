package clientsync

import (
	"errors"

	"scholarport/internal/client"
)

// Level tells a success notice from a failure notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Notice is a short user facing message about the outcome of an action.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

const retryMessage = "something went wrong, please try again"

// failureMessage picks what the user sees for err. Client-correctable
// failures carry their own message; everything else is generic.
func failureMessage(err error) string {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Message()
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && (client.IsNotFound(err) || client.IsValidation(err)) {
		return apiErr.Message
	}
	return retryMessage
}
