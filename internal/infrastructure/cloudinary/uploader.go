package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"golang.org/x/exp/slog"

	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/domain/media"
)

// Uploader - неподписанная загрузка изображений через upload preset
type Uploader struct {
	client   *http.Client
	endpoint string
	preset   string
	folder   string
	log      *slog.Logger
}

func New(cfg config.Media, client *http.Client, log *slog.Logger) *Uploader {
	return &Uploader{
		client:   client,
		endpoint: fmt.Sprintf("%s/%s/image/upload", cfg.BaseURL, url.PathEscape(cfg.CloudName)),
		preset:   cfg.UploadPreset,
		folder:   cfg.Folder,
		log:      log.With(slog.String("component", "cloudinary")),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (u *Uploader) Upload(ctx context.Context, f media.File) (media.UploadResult, error) {
	body, contentType, err := u.buildForm(f)
	if err != nil {
		return media.UploadResult{}, &media.DomainError{Err: fmt.Errorf("%w: %v", media.ErrUpload, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return media.UploadResult{}, &media.DomainError{Err: fmt.Errorf("%w: create request: %v", media.ErrUpload, err)}
	}
	req.Header.Set("Content-Type", contentType)

	u.log.Debug("uploading image", "file", f.Name, "size", f.Size(), "folder", u.folder)

	resp, err := u.client.Do(req)
	if err != nil {
		return media.UploadResult{}, &media.DomainError{Err: fmt.Errorf("%w: perform request: %w", media.ErrUpload, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return media.UploadResult{}, &media.DomainError{Err: fmt.Errorf("%w: read response: %v", media.ErrUpload, err)}
	}

	var parsed uploadResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= http.StatusBadRequest {
		// тело ошибки может быть не JSON (прокси, HTML), тогда текста нет
		msg := ""
		if decodeErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return media.UploadResult{}, &media.DomainError{
			Err:     fmt.Errorf("%w: status %d", media.ErrUpload, resp.StatusCode),
			Message: msg,
		}
	}

	if decodeErr != nil {
		return media.UploadResult{}, &media.DomainError{Err: fmt.Errorf("%w: decode response (status %d): %w", media.ErrUpload, resp.StatusCode, decodeErr)}
	}
	if parsed.SecureURL == "" {
		return media.UploadResult{}, &media.DomainError{Err: fmt.Errorf("%w: response has no secure_url", media.ErrUpload)}
	}

	u.log.Debug("image uploaded", "file", f.Name, "url", parsed.SecureURL)
	return media.UploadResult{URL: parsed.SecureURL}, nil
}

func (u *Uploader) buildForm(f media.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f.Reader()); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.WriteField("upload_preset", u.preset); err != nil {
		return nil, "", fmt.Errorf("write upload_preset: %w", err)
	}
	if err := w.WriteField("folder", u.folder); err != nil {
		return nil, "", fmt.Errorf("write folder: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
