package cloudinary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/domain/media"
)

type captured struct {
	cloud    string
	preset   string
	folder   string
	filename string
	data     []byte
}

func newServer(t *testing.T, status int, body any, got *captured) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/v1_1/{cloud}/image/upload", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		file, hdr, err := req.FormFile("file")
		require.NoError(t, err)
		data, err := io.ReadAll(file)
		require.NoError(t, err)

		if got != nil {
			*got = captured{
				cloud:    chi.URLParam(req, "cloud"),
				preset:   req.FormValue("upload_preset"),
				folder:   req.FormValue("folder"),
				filename: hdr.Filename,
				data:     data,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newUploader(srv *httptest.Server) *Uploader {
	return New(config.Media{
		BaseURL:      srv.URL + "/v1_1",
		CloudName:    "diz0v7rws",
		UploadPreset: "ssks-architect",
		Folder:       "ssks-architect/project",
	}, srv.Client(), slog.Default())
}

func TestUploader_Upload_Success(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, map[string]string{"secure_url": "https://x/y.jpg"}, &got)
	u := newUploader(srv)

	res, err := u.Upload(context.Background(), media.File{Name: "y.jpg", Data: []byte{0xFF, 0xD8, 0xFF}})

	require.NoError(t, err)
	assert.Equal(t, "https://x/y.jpg", res.URL)
	assert.Equal(t, "diz0v7rws", got.cloud)
	assert.Equal(t, "ssks-architect", got.preset)
	assert.Equal(t, "ssks-architect/project", got.folder)
	assert.Equal(t, "y.jpg", got.filename)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, got.data)
}

func TestUploader_Upload_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantMessage string
	}{
		{
			name:        "bad request with cloudinary error",
			status:      http.StatusBadRequest,
			body:        map[string]any{"error": map[string]string{"message": "Upload preset not found"}},
			wantMessage: "Upload preset not found",
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   map[string]string{},
		},
		{
			name:   "ok without secure_url",
			status: http.StatusOK,
			body:   map[string]string{"url": "http://x/y.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			u := newUploader(srv)

			_, err := u.Upload(context.Background(), media.File{Name: "y.jpg", Data: []byte("x")})

			require.Error(t, err)
			assert.ErrorIs(t, err, media.ErrUpload)
			var de *media.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantMessage, de.Message)
		})
	}
}

func TestUploader_Upload_Cancelled(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/v1_1/{cloud}/image/upload", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	u := newUploader(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.Upload(ctx, media.File{Name: "y.jpg", Data: []byte("x")})

	require.Error(t, err)
	assert.ErrorIs(t, err, media.ErrUpload)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUploader_Upload_NonJSONResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "ok with html body", status: http.StatusOK},
		{name: "bad gateway with html body", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post("/v1_1/{cloud}/image/upload", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("<html>gateway</html>"))
			})
			srv := httptest.NewServer(r)
			defer srv.Close()
			u := newUploader(srv)

			_, err := u.Upload(context.Background(), media.File{Name: "y.jpg", Data: []byte("x")})

			require.Error(t, err)
			assert.ErrorIs(t, err, media.ErrUpload)
			var de *media.DomainError
			require.ErrorAs(t, err, &de)
			assert.Empty(t, de.Message)
			if tt.status == http.StatusOK {
				var syntaxErr *json.SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
			}
		})
	}
}
