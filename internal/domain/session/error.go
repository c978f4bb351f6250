package session

import "errors"

var (
	ErrValidation = errors.New("missing credentials")
	ErrAuth       = errors.New("authentication failed")
	ErrBusy       = errors.New("login already in progress")
	ErrNoSession  = errors.New("no stored session")
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

// serverMessenger реализуют ошибки транспорта, несущие текст от сервера
type serverMessenger interface {
	ServerMessage() string
}
