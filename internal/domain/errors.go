package domain

import "errors"

var (
	// ErrTestNotFound indicates the test document could not be loaded.
	ErrTestNotFound = errors.New("test not found")
	// ErrQuestionNotFound indicates a question index or ID is out of range.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a selected option ID is not part of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrNotLoaded is returned when the quiz content has not arrived yet.
	ErrNotLoaded = errors.New("quiz not loaded")
	// ErrEmptySelection is returned when submitting with nothing selected.
	ErrEmptySelection = errors.New("select at least one option")
	// ErrNoAnswer is returned when moving forward past an unanswered question.
	ErrNoAnswer = errors.New("current question has no recorded answer")
	// ErrIncomplete is returned when finishing with unanswered questions.
	ErrIncomplete = errors.New("not every question has been answered")
	// ErrInvalidTest wraps every validation failure.
	ErrInvalidTest = errors.New("invalid test")
)

// ValidationError carries the user-facing message of a failed check.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidTest).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidTest
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
