package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/domain/project"
	"ssksadmin/internal/domain/session"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Env:            config.EnvLocal,
		APIURL:         apiURL,
		RequestTimeout: 5 * time.Second,
		Media: config.Media{
			BaseURL:       "http://media.invalid/v1_1",
			CloudName:     "test",
			UploadPreset:  "ssks-architect",
			Folder:        "ssks-architect/project",
			MaxImageBytes: 5 << 20,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPClient_Login(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/admin/login", func(w http.ResponseWriter, req *http.Request) {
		var creds session.Credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		if creds.Password != "p" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/", MaxAge: 3600, HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "admin": map[string]string{"email": creds.Email}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	// завершающий слэш не должен давать "//admin/login"
	h, err := NewHTTPClient(testConfig(srv.URL+"/"), slog.Default())
	require.NoError(t, err)

	t.Run("success keeps cookie", func(t *testing.T) {
		res, err := h.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "p"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.JSONEq(t, `{"message":"Login successful","admin":{"email":"a@b.com"}}`, string(res.Payload))

		cookies := h.Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Equal(t, "abc", cookies[0].Value)
		assert.Equal(t, "/", cookies[0].Path)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("unauthorized carries server message", func(t *testing.T) {
		_, err := h.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "bad"})

		require.Error(t, err)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Invalid credentials", apiErr.ServerMessage())
	})
}

func TestHTTPClient_Cookies_FallsBackToJar(t *testing.T) {
	h, err := NewHTTPClient(testConfig("http://localhost:8000"), slog.Default())
	require.NoError(t, err)
	assert.Empty(t, h.Cookies())

	h.RestoreCookies([]*http.Cookie{{Name: "token", Value: "restored", Path: "/"}})

	cookies := h.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "restored", cookies[0].Value)
}

func TestHTTPClient_ErrorFieldFallback(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/project/save", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not authorized"})
	})
	r.Put("/project/update/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	h, err := NewHTTPClient(testConfig(srv.URL), slog.Default())
	require.NoError(t, err)

	_, err = h.Create(context.Background(), project.Record{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not authorized", apiErr.Message)

	_, err = h.Update(context.Background(), "p1", project.Record{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}

func TestHTTPClient_CreateAndUpdate(t *testing.T) {
	var (
		created project.Record
		updated project.Record
		gotID   string
		cookie  string
	)

	r := chi.NewRouter()
	r.Post("/project/save", func(w http.ResponseWriter, req *http.Request) {
		if c, err := req.Cookie("token"); err == nil {
			cookie = c.Value
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&created))
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Project saved successfully"})
	})
	r.Put("/project/update/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotID = chi.URLParam(req, "id")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&updated))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Project updated successfully"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	h, err := NewHTTPClient(testConfig(srv.URL), slog.Default())
	require.NoError(t, err)
	h.RestoreCookies([]*http.Cookie{{Name: "token", Value: "restored", Path: "/"}})

	rec := project.Record{
		Title:        "House",
		MainImageURL: "https://x/y.jpg",
		Description:  "d",
		Category:     project.CategoryCommercial,
		Location:     "Kandy",
		OtherImages:  []string{"https://x/1.jpg"},
	}

	msg, err := h.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "Project saved successfully", msg)
	assert.Equal(t, rec, created)
	assert.Equal(t, "restored", cookie)

	msg, err = h.Update(context.Background(), "65f0", rec)
	require.NoError(t, err)
	assert.Equal(t, "Project updated successfully", msg)
	assert.Equal(t, "65f0", gotID)
	assert.Equal(t, rec, updated)
}

func TestHTTPClient_HealthCheck(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(r)

	h, err := NewHTTPClient(testConfig(srv.URL), slog.Default())
	require.NoError(t, err)

	assert.NoError(t, h.HealthCheck(context.Background()))

	srv.Close()
	assert.Error(t, h.HealthCheck(context.Background()))
}
