package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes int64 = 5 << 20

var defaultAllowed = []string{"image/jpeg", "image/png", "image/webp"}

// ImageValidator проверяет формат по содержимому и размер файла
type ImageValidator struct {
	maxBytes int64
	allowed  []string
}

func NewImageValidator(maxBytes int64) *ImageValidator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &ImageValidator{
		maxBytes: maxBytes,
		allowed:  defaultAllowed,
	}
}

func (v *ImageValidator) Validate(f File) error {
	if f.Size() == 0 {
		return &DomainError{Err: ErrImageRejected, Message: "Please select an image file."}
	}

	mtype := mimetype.Detect(f.Data)
	if !mimetype.EqualsAny(mtype.String(), v.allowed...) {
		return &DomainError{
			Err:     ErrImageRejected,
			Message: fmt.Sprintf("Only %s images are allowed.", v.allowedNames()),
		}
	}

	if f.Size() > v.maxBytes {
		return &DomainError{
			Err:     ErrImageRejected,
			Message: fmt.Sprintf("Image size must be less than %s.", humanSize(v.maxBytes)),
		}
	}

	return nil
}

func (v *ImageValidator) allowedNames() string {
	names := make([]string, 0, len(v.allowed))
	for _, a := range v.allowed {
		names = append(names, strings.ToUpper(strings.TrimPrefix(a, "image/")))
	}
	return strings.Join(names, ", ")
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	if n >= mb {
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	}
	if n >= 1024 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%dB", n)
}
