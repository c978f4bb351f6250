package project

import "errors"

var (
	ErrValidation      = errors.New("project validation failed")
	ErrSubmit          = errors.New("failed to save project")
	ErrBusy            = errors.New("editor is busy")
	ErrClosed          = errors.New("editor is closed")
	ErrNotOpen         = errors.New("editor is not open")
	ErrIndexOutOfRange = errors.New("image index out of range")
)

type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
