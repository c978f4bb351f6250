package project

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryResidential   Category = "Residential"
	CategoryCommercial    Category = "Commercial"
	CategoryInstitutional Category = "Institutional"
	CategoryLandscape     Category = "Landscape"
	CategoryPublic        Category = "Public"
)

// Categories - допустимые категории в порядке выбора
var Categories = []Category{
	CategoryResidential,
	CategoryCommercial,
	CategoryInstitutional,
	CategoryLandscape,
	CategoryPublic,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory разбирает категорию без учета регистра
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}

// Record - проект в том виде, в котором он уходит на сервер целиком
type Record struct {
	Title        string   `json:"title"`
	MainImageURL string   `json:"mainImageUrl"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Location     string   `json:"location"`
	OtherImages  []string `json:"otherImages"`
}

// Clone возвращает копию с собственным срезом изображений
func (r Record) Clone() Record {
	out := r
	out.OtherImages = make([]string, len(r.OtherImages))
	copy(out.OtherImages, r.OtherImages)
	return out
}

// Missing перечисляет пустые обязательные поля. Location сюда не входит.
func (r Record) Missing() []string {
	var missing []string
	if r.Title == "" {
		missing = append(missing, "title")
	}
	if r.MainImageURL == "" {
		missing = append(missing, "mainImageUrl")
	}
	if r.Description == "" {
		missing = append(missing, "description")
	}
	if r.Category == "" {
		missing = append(missing, "category")
	}
	return missing
}

// Images возвращает все URL изображений записи
func (r Record) Images() []string {
	out := make([]string, 0, len(r.OtherImages)+1)
	if r.MainImageURL != "" {
		out = append(out, r.MainImageURL)
	}
	return append(out, r.OtherImages...)
}

// StoredProject - запись, уже сохраненная на сервере
type StoredProject struct {
	ID string `json:"_id"`
	Record
}

type Slot int

const (
	SlotMain Slot = iota
	SlotOther
)

func (s Slot) String() string {
	switch s {
	case SlotMain:
		return "main"
	case SlotOther:
		return "other"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

type SlotState int

const (
	SlotIdle SlotState = iota
	SlotUploading
	SlotDone
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotUploading:
		return "uploading"
	case SlotDone:
		return "done"
	case SlotFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type State int

const (
	StateIdle State = iota
	StateEditing
	StateSubmitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
