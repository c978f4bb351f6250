package media

import "errors"

var (
	ErrImageRejected = errors.New("image rejected")
	ErrUpload        = errors.New("image upload failed")
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
