package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/domain/project"
	"ssksadmin/internal/domain/session"
)

// APIError - ответ сервера со статусом ошибки
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ошибка сервера: статус %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("ошибка сервера: статус %d", e.Status)
}

// ServerMessage возвращает текст, присланный сервером
func (e *APIError) ServerMessage() string {
	return e.Message
}

type httpClient struct {
	client    *http.Client
	jar       http.CookieJar
	log       *slog.Logger
	base      *url.URL
	baseURL   string
	userAgent string

	mu sync.Mutex
	// issued - cookie из Set-Cookie последнего входа со всеми атрибутами
	issued []*http.Cookie
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	baseURL := config.NormalizeURL(cfg.APIURL)
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес сервера %q: %w", cfg.APIURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания cookie jar: %w", err)
	}

	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Jar:     jar,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		jar:       jar,
		log:       log.With(slog.String("component", "http_client")),
		base:      base,
		baseURL:   baseURL,
		userAgent: "SSKS-Admin-Client/1.0",
	}, nil
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

// Login отправляет учетные данные. Cookie сессии остаются в jar,
// их атрибуты запоминаются для сохранения между запусками.
func (h *httpClient) Login(ctx context.Context, creds session.Credentials) (session.LoginResult, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/admin/login", creds)
	if err != nil {
		return session.LoginResult{}, err
	}

	var payload json.RawMessage
	if err := h.parseResponse(resp, &payload); err != nil {
		return session.LoginResult{}, err
	}

	if issued := resp.Cookies(); len(issued) > 0 {
		h.mu.Lock()
		h.issued = issued
		h.mu.Unlock()
	}

	return session.LoginResult{Status: resp.StatusCode, Payload: payload}, nil
}

// Create сохраняет новый проект
func (h *httpClient) Create(ctx context.Context, rec project.Record) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/project/save", rec)
	if err != nil {
		return "", err
	}

	var saveResp struct {
		Message string `json:"message"`
	}
	if err := h.parseResponse(resp, &saveResp); err != nil {
		return "", err
	}
	return saveResp.Message, nil
}

// Update заменяет проект целиком по id
func (h *httpClient) Update(ctx context.Context, id string, rec project.Record) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPut, "/project/update/"+url.PathEscape(id), rec)
	if err != nil {
		return "", err
	}

	var updateResp struct {
		Message string `json:"message"`
	}
	if err := h.parseResponse(resp, &updateResp); err != nil {
		return "", err
	}
	return updateResp.Message, nil
}

// Cookies возвращает cookie последнего входа с атрибутами.
// Без входа в этом запуске - то, что jar отправит серверу (только имя и значение).
func (h *httpClient) Cookies() []*http.Cookie {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.issued) > 0 {
		out := make([]*http.Cookie, len(h.issued))
		copy(out, h.issued)
		return out
	}
	return h.jar.Cookies(h.base)
}

// RestoreCookies кладет ранее сохраненные cookie обратно в jar
func (h *httpClient) RestoreCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	h.jar.SetCookies(h.base, cookies)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Добавляем заголовки
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	if result != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
