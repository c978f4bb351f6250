package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/domain/media"
	"ssksadmin/internal/domain/project"
	"ssksadmin/internal/domain/session"
	"ssksadmin/internal/infrastructure/cloudinary"
	"ssksadmin/internal/infrastructure/storage"
	"ssksadmin/internal/notify"
)

type Option func(*App)

func WithNotifier(n notify.Notifier) Option {
	return func(a *App) { a.notifier = n }
}

func WithStorage(s storage.Storage) Option {
	return func(a *App) { a.storage = s }
}

func WithUploader(u media.Uploader) Option {
	return func(a *App) { a.uploader = u }
}

type App struct {
	config        *config.Config
	log           *slog.Logger
	httpClient    *httpClient
	storage       storage.Storage
	memoryStorage bool
	notifier      notify.Notifier
	validator     media.Validator
	uploader      media.Uploader
	sessions      *session.Service
	authenticated bool
	mu            sync.RWMutex
}

func New(cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	// Инициализируем HTTP клиент
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		validator:  media.NewImageValidator(cfg.Media.MaxImageBytes),
	}
	for _, opt := range opts {
		opt(app)
	}

	// Инициализируем локальное хранилище (используем SQLite)
	if app.storage == nil {
		sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
		if err != nil {
			log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
			app.storage = NewMemoryStorage()
			app.memoryStorage = true
		} else {
			app.storage = sqliteStorage
		}
	}
	if app.notifier == nil {
		app.notifier = notify.NewTerminal(os.Stdout, nil)
	}
	if app.uploader == nil {
		app.uploader = cloudinary.New(cfg.Media, &http.Client{Timeout: cfg.RequestTimeout}, log)
	}

	app.sessions = session.NewService(httpCl, app.storage, app.notifier, log)

	// Загружаем cookie прошлого входа, если они есть
	if err := app.restoreCookies(context.Background()); err != nil {
		log.Warn("Не удалось восстановить cookie", "error", err)
	}
	if _, err := app.sessions.Current(context.Background()); err == nil {
		app.authenticated = true
		log.Debug("Сессия загружена из хранилища")
	}

	return app, nil
}

// Notifier возвращает получателя уведомлений приложения
func (a *App) Notifier() notify.Notifier {
	return a.notifier
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

// InitStorage проверяет, что хранилище доступно для чтения
func (a *App) InitStorage(ctx context.Context) error {
	if _, err := a.storage.Get(ctx, session.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}
	if a.memoryStorage {
		a.log.Warn("Используется временное хранилище, сессия не сохранится")
	}
	return nil
}

// UsesMemoryStorage - true, если SQLite недоступен и данные живут только в памяти
func (a *App) UsesMemoryStorage() bool {
	return a.memoryStorage
}

// Login выполняет вход администратора и сохраняет cookie сессии
func (a *App) Login(ctx context.Context, creds session.Credentials) (session.Session, error) {
	sess, err := a.sessions.SubmitLogin(ctx, creds)
	if err != nil {
		return session.Session{}, err
	}

	if err := a.saveCookies(ctx); err != nil {
		a.log.Warn("Не удалось сохранить cookie", "error", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.mu.Unlock()

	a.log.Info("Вход выполнен успешно", "email", creds.Email)
	return sess, nil
}

// Session возвращает сохраненную сессию
func (a *App) Session(ctx context.Context) (session.Session, error) {
	return a.sessions.Current(ctx)
}

// IsAuthenticated проверяет, был ли успешный вход
func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// OpenEditor открывает редактор проекта. existing == nil - новый проект.
func (a *App) OpenEditor(ctx context.Context, existing *project.StoredProject, onClose func()) (*project.Editor, error) {
	opts := []project.Option{}
	if onClose != nil {
		opts = append(opts, project.WithOnClose(onClose))
	}

	ed := project.NewEditor(a.httpClient, a.validator, a.uploader, a.notifier, a.log, opts...)
	if err := ed.Open(ctx, existing); err != nil {
		return nil, err
	}
	return ed, nil
}

// UploadOthers загружает изображения галереи параллельно.
// Загрузки независимы, ошибка одной не отменяет другие. Результат выровнен по files.
func (a *App) UploadOthers(ctx context.Context, ed *project.Editor, files []media.File) []error {
	errs := make([]error, len(files))

	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			_, errs[i] = ed.Upload(ctx, project.SlotOther, f)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) saveCookies(ctx context.Context) error {
	now := time.Now()
	cookies := a.httpClient.Cookies()
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		// Max-Age < 0 - сервер удалил cookie
		if c.MaxAge < 0 {
			continue
		}
		stored = append(stored, fromHTTPCookie(c, now))
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("ошибка сериализации cookie: %w", err)
	}
	return a.storage.Put(ctx, cookiesKey, data)
}

func (a *App) restoreCookies(ctx context.Context) error {
	data, err := a.storage.Get(ctx, cookiesKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("ошибка парсинга cookie: %w", err)
	}

	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		if c.expired(now) {
			a.log.Debug("stored cookie expired", "name", c.Name)
			continue
		}
		cookies = append(cookies, c.toHTTPCookie())
	}
	a.httpClient.RestoreCookies(cookies)
	return nil
}
