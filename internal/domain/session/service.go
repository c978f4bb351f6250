package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/exp/slog"

	"ssksadmin/internal/infrastructure/storage"
	"ssksadmin/internal/notify"
)

const fallbackMessage = "Login failed. Please try again."

type Service struct {
	auth       Authenticator
	store      Store
	notifier   notify.Notifier
	log        *slog.Logger
	submitting atomic.Bool
}

func NewService(auth Authenticator, store Store, notifier notify.Notifier, log *slog.Logger) *Service {
	return &Service{
		auth:     auth,
		store:    store,
		notifier: notifier,
		log:      log.With(slog.String("component", "session")),
	}
}

// SubmitLogin проверяет форму, отправляет ее на сервер и сохраняет ответ.
// Каждый вызов - отдельная попытка, повторов нет.
func (s *Service) SubmitLogin(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Email == "" || creds.Password == "" {
		s.notifier.Notify(notify.Notice{
			Title:    "Missing Information",
			Message:  "Please enter both email and password.",
			Severity: notify.SeverityWarning,
			Confirm:  "OK",
		})
		return Session{}, &DomainError{Err: ErrValidation, Message: "please enter both email and password"}
	}

	if !s.submitting.CompareAndSwap(false, true) {
		return Session{}, ErrBusy
	}
	defer s.submitting.Store(false)

	res, err := s.auth.Login(ctx, creds)
	if err == nil && res.Status != http.StatusOK && res.Status != http.StatusCreated {
		err = fmt.Errorf("unexpected status %d", res.Status)
	}
	if err != nil {
		msg := fallbackMessage
		var sm serverMessenger
		if errors.As(err, &sm) && strings.TrimSpace(sm.ServerMessage()) != "" {
			msg = sm.ServerMessage()
		}
		s.log.Warn("login failed", "email", creds.Email, "error", err)
		s.notifier.Notify(notify.Notice{
			Title:    "Authentication Failed",
			Message:  msg,
			Severity: notify.SeverityError,
			Confirm:  "Try Again",
		})
		return Session{}, &DomainError{Err: fmt.Errorf("%w: %v", ErrAuth, err), Message: msg}
	}

	payload := res.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	if err := s.store.Put(ctx, StorageKey, payload); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	s.log.Info("login succeeded", "email", creds.Email)
	return Session{Payload: payload}, nil
}

// Current возвращает сохраненную полезную нагрузку последнего входа
func (s *Service) Current(ctx context.Context) (Session, error) {
	data, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return Session{Payload: json.RawMessage(data)}, nil
}
