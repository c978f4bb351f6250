package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"ssksadmin/internal/domain/media"
	"ssksadmin/internal/notify"
)

const (
	msgRequired     = "All fields are required!"
	msgUploaded     = "Image Uploaded Successfully!"
	msgUploadFailed = "Image Upload Failed!"
	msgSaveFailed   = "Failed to save project!"
)

type Option func(*Editor)

// WithOnClose задает действие вызывающей стороны после закрытия редактора
func WithOnClose(fn func()) Option {
	return func(e *Editor) {
		e.onClose = fn
	}
}

type slotTracker struct {
	state    SlotState
	inflight int
}

// Editor хранит рабочее состояние одной записи проекта от открытия до закрытия.
// Безопасен для конкурентного использования.
type Editor struct {
	id        uuid.UUID
	repo      Repository
	validator media.Validator
	uploader  media.Uploader
	notifier  notify.Notifier
	log       *slog.Logger
	onClose   func()

	mu       sync.Mutex
	state    State
	source   *StoredProject
	work     Record
	uploaded []string
	slots    [2]slotTracker
	cancel   context.CancelFunc
	life     context.Context
}

func NewEditor(
	repo Repository,
	validator media.Validator,
	uploader media.Uploader,
	notifier notify.Notifier,
	log *slog.Logger,
	opts ...Option,
) *Editor {
	id := uuid.New()
	e := &Editor{
		id:        id,
		repo:      repo,
		validator: validator,
		uploader:  uploader,
		notifier:  notifier,
		log: log.With(
			slog.String("component", "project_editor"),
			slog.String("editor_id", id.String()),
		),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) ID() string {
	return e.id.String()
}

// Open переводит редактор в режим редактирования.
// existing == nil означает создание новой записи.
func (e *Editor) Open(ctx context.Context, existing *StoredProject) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateIdle:
	case StateClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: editor already open", ErrBusy)
	}

	e.work = Record{OtherImages: []string{}}
	if existing != nil {
		src := *existing
		src.Record = src.Record.Clone()
		e.source = &src
		e.work = src.Record.Clone()
	}

	e.life, e.cancel = context.WithCancel(ctx)
	e.state = StateEditing

	e.log.Debug("editor opened", "update", e.source != nil)
	return nil
}

func (e *Editor) SetTitle(v string) error {
	return e.edit(func(r *Record) { r.Title = v })
}

func (e *Editor) SetDescription(v string) error {
	return e.edit(func(r *Record) { r.Description = v })
}

func (e *Editor) SetLocation(v string) error {
	return e.edit(func(r *Record) { r.Location = v })
}

// SetCategory принимает только известные категории, пустая строка очищает поле
func (e *Editor) SetCategory(c Category) error {
	if c != "" && !c.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, c)
	}
	return e.edit(func(r *Record) { r.Category = c })
}

// Upload проверяет файл, загружает его и кладет URL в слот.
// Main заменяет значение, Other добавляет в конец в порядке завершения загрузок.
func (e *Editor) Upload(ctx context.Context, slot Slot, f media.File) (string, error) {
	if slot != SlotMain && slot != SlotOther {
		return "", fmt.Errorf("%w: unknown slot %s", ErrValidation, slot)
	}

	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return "", err
	}
	if err := e.validator.Validate(f); err != nil {
		e.mu.Unlock()
		msg := err.Error()
		var de *media.DomainError
		if errors.As(err, &de) && de.Message != "" {
			msg = de.Message
		}
		e.log.Warn("image rejected", "slot", slot.String(), "file", f.Name, "error", err)
		e.notifier.Notify(notify.Notice{Title: "Error", Message: msg, Severity: notify.SeverityError})
		return "", err
	}
	tr := &e.slots[slot]
	tr.inflight++
	tr.state = SlotUploading
	life := e.life
	e.mu.Unlock()

	upCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(life, cancel)
	defer stop()

	e.log.Debug("upload started", "slot", slot.String(), "file", f.Name)
	res, err := e.uploader.Upload(upCtx, f)

	e.mu.Lock()
	tr.inflight--
	if e.state == StateClosed {
		e.mu.Unlock()
		e.log.Debug("upload result discarded", "slot", slot.String(), "file", f.Name)
		return "", ErrClosed
	}
	if err != nil {
		if tr.inflight == 0 {
			tr.state = SlotFailed
		}
		e.mu.Unlock()
		e.log.Error("upload failed", "slot", slot.String(), "file", f.Name, "error", err)
		e.notifier.Notify(notify.Notice{Title: "Error", Message: msgUploadFailed, Severity: notify.SeverityError})
		return "", err
	}

	switch slot {
	case SlotMain:
		e.work.MainImageURL = res.URL
	case SlotOther:
		e.work.OtherImages = append(e.work.OtherImages, res.URL)
	}
	e.uploaded = append(e.uploaded, res.URL)
	if tr.inflight == 0 {
		tr.state = SlotDone
	}
	e.mu.Unlock()

	e.log.Info("image uploaded", "slot", slot.String(), "url", res.URL)
	e.notifier.Notify(notify.Notice{Title: "Success", Message: msgUploaded, Severity: notify.SeveritySuccess})
	return res.URL, nil
}

// RemoveOtherImage убирает изображение галереи по индексу только локально
func (e *Editor) RemoveOtherImage(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}
	n := len(e.work.OtherImages)
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
	}

	kept := make([]string, 0, n-1)
	for idx, u := range e.work.OtherImages {
		if idx != i {
			kept = append(kept, u)
		}
	}
	e.work.OtherImages = kept
	return nil
}

// ClearMainImage очищает главное изображение только локально.
// Прежний URL остается в исходной записи или среди загруженных и попадает в Reconcile.
func (e *Editor) ClearMainImage() error {
	return e.edit(func(r *Record) { r.MainImageURL = "" })
}

// Submit сохраняет рабочее состояние: обновление при наличии id, иначе создание.
// При ошибке редактор остается открытым с прежним состоянием.
func (e *Editor) Submit(ctx context.Context) (string, error) {
	e.mu.Lock()
	switch e.state {
	case StateIdle:
		e.mu.Unlock()
		return "", ErrNotOpen
	case StateClosed:
		e.mu.Unlock()
		return "", ErrClosed
	case StateSubmitting:
		e.mu.Unlock()
		return "", fmt.Errorf("%w: submit in progress", ErrBusy)
	}

	if missing := e.work.Missing(); len(missing) > 0 {
		e.mu.Unlock()
		e.log.Warn("submit rejected", "missing", missing)
		e.notifier.Notify(notify.Notice{Title: "Warning", Message: msgRequired, Severity: notify.SeverityWarning})
		return "", &DomainError{
			Err:     fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", ")),
			Message: msgRequired,
		}
	}
	if e.uploadingLocked() {
		e.mu.Unlock()
		return "", fmt.Errorf("%w: image upload in progress", ErrBusy)
	}

	e.state = StateSubmitting
	rec := e.work.Clone()
	life := e.life
	var id string
	if e.source != nil {
		id = e.source.ID
	}
	e.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(life, cancel)
	defer stop()

	var (
		msg string
		err error
	)
	if id != "" {
		e.log.Debug("updating project", "id", id)
		msg, err = e.repo.Update(subCtx, id, rec)
	} else {
		e.log.Debug("creating project")
		msg, err = e.repo.Create(subCtx, rec)
	}

	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		e.log.Debug("submit result discarded")
		return "", ErrClosed
	}
	if err != nil {
		e.state = StateEditing
		e.mu.Unlock()
		e.log.Error("save project failed", "id", id, "error", err)
		e.notifier.Notify(notify.Notice{Title: "Error", Message: msgSaveFailed, Severity: notify.SeverityError})
		return "", &DomainError{Err: fmt.Errorf("%w: %w", ErrSubmit, err), Message: msgSaveFailed}
	}
	e.state = StateClosed
	e.cancel()
	e.mu.Unlock()

	e.log.Info("project saved", "id", id, "message", msg)
	e.notifier.Notify(notify.Notice{Title: "Success", Message: msg, Severity: notify.SeveritySuccess})
	if e.onClose != nil {
		e.onClose()
	}
	return msg, nil
}

// Close закрывает редактор и отменяет незавершенные запросы.
// Их результаты после закрытия отбрасываются.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return
	}
	e.state = StateClosed
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	e.log.Debug("editor closed")
	if e.onClose != nil {
		e.onClose()
	}
}

// Snapshot возвращает копию рабочего состояния
func (e *Editor) Snapshot() Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.work.Clone()
}

func (e *Editor) SlotState(slot Slot) SlotState {
	if slot != SlotMain && slot != SlotOther {
		return SlotIdle
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slots[slot].state
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Busy - идет загрузка в любой слот или отправка
func (e *Editor) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateSubmitting || e.uploadingLocked()
}

// Reconcile возвращает URL, которые были в исходной записи или загружены
// в этой сессии, но отсутствуют в рабочем состоянии. Удаленно ничего не удаляет.
func (e *Editor) Reconcile() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	keep := make(map[string]struct{})
	for _, u := range e.work.Images() {
		keep[u] = struct{}{}
	}

	var candidates []string
	if e.source != nil {
		candidates = append(candidates, e.source.Images()...)
	}
	candidates = append(candidates, e.uploaded...)

	seen := make(map[string]struct{})
	var orphans []string
	for _, u := range candidates {
		if _, ok := keep[u]; ok {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		orphans = append(orphans, u)
	}
	return orphans
}

func (e *Editor) edit(fn func(r *Record)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	fn(&e.work)
	return nil
}

func (e *Editor) editableLocked() error {
	switch e.state {
	case StateEditing:
		return nil
	case StateIdle:
		return ErrNotOpen
	case StateClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: submit in progress", ErrBusy)
	}
}

func (e *Editor) uploadingLocked() bool {
	for _, tr := range e.slots {
		if tr.inflight > 0 {
			return true
		}
	}
	return false
}
