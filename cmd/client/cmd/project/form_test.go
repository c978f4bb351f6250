package project

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"ssksadmin/internal/domain/media"
	domain "ssksadmin/internal/domain/project"
	"ssksadmin/internal/notify"
)

func TestCollectFields(t *testing.T) {
	tests := []struct {
		name    string
		base    domain.Record
		flags   formFlags
		input   string
		prompt  bool
		want    domain.Record
		wantErr bool
	}{
		{
			name:  "flags only",
			flags: formFlags{title: "Villa", description: "d", category: "residential", location: "Colombo"},
			want: domain.Record{
				Title: "Villa", Description: "d", Category: domain.CategoryResidential, Location: "Colombo",
				OtherImages: []string{},
			},
		},
		{
			name:   "prompts for missing fields",
			flags:  formFlags{title: "Villa"},
			input:  "Kandy\nPublic\nA park\n",
			prompt: true,
			want: domain.Record{
				Title: "Villa", Description: "A park", Category: domain.CategoryPublic, Location: "Kandy",
				OtherImages: []string{},
			},
		},
		{
			name:  "flags override stored record",
			base:  domain.Record{Title: "Old", Location: "Galle", MainImageURL: "https://x/m.jpg", OtherImages: []string{"a"}},
			flags: formFlags{title: "New"},
			want:  domain.Record{Title: "New", Location: "Galle", MainImageURL: "https://x/m.jpg", OtherImages: []string{"a"}},
		},
		{
			name:    "location is required",
			flags:   formFlags{title: "Villa"},
			wantErr: true,
		},
		{
			name:    "unknown category",
			flags:   formFlags{category: "Industrial", location: "Colombo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPrompter(strings.NewReader(tt.input), &bytes.Buffer{}, tt.prompt)

			got, err := collectFields(tt.base, tt.flags, p)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveOthers_UsesOriginalIndexes(t *testing.T) {
	ed := domain.NewEditor(nil, media.NewImageValidator(0), nil, notify.NewRecorder(), slog.Default())
	require.NoError(t, ed.Open(context.Background(), &domain.StoredProject{
		ID:     "p1",
		Record: domain.Record{OtherImages: []string{"a", "b", "c", "d"}},
	}))

	require.NoError(t, removeOthers(ed, []int{0, 2, 2}))

	assert.Equal(t, []string{"b", "d"}, ed.Snapshot().OtherImages)
	assert.ErrorIs(t, removeOthers(ed, []int{5}), domain.ErrIndexOutOfRange)
}

func TestApplyImageEdits(t *testing.T) {
	stored := &domain.StoredProject{ID: "p1", Record: domain.Record{
		Title:        "Villa",
		MainImageURL: "https://x/m.jpg",
		Description:  "d",
		Category:     domain.CategoryResidential,
		Location:     "Galle",
		OtherImages:  []string{"a", "b"},
	}}

	tests := []struct {
		name      string
		edits     imageEdits
		wantMain  string
		wantOther []string
		orphans   []string
	}{
		{name: "nothing", wantMain: "https://x/m.jpg", wantOther: []string{"a", "b"}},
		{
			name:      "clear main image",
			edits:     imageEdits{clearMain: true},
			wantOther: []string{"a", "b"},
			orphans:   []string{"https://x/m.jpg"},
		},
		{
			name:      "clear main and remove gallery image",
			edits:     imageEdits{clearMain: true, removeOther: []int{1}},
			wantOther: []string{"a"},
			orphans:   []string{"https://x/m.jpg", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := domain.NewEditor(nil, media.NewImageValidator(0), nil, notify.NewRecorder(), slog.Default())
			require.NoError(t, ed.Open(context.Background(), stored))

			require.NoError(t, applyImageEdits(ed, tt.edits))

			snap := ed.Snapshot()
			assert.Equal(t, tt.wantMain, snap.MainImageURL)
			assert.Equal(t, tt.wantOther, snap.OtherImages)
			assert.Equal(t, tt.orphans, ed.Reconcile())
		})
	}

	t.Run("cleared main blocks submit without a repository call", func(t *testing.T) {
		ed := domain.NewEditor(nil, media.NewImageValidator(0), nil, notify.NewRecorder(), slog.Default())
		require.NoError(t, ed.Open(context.Background(), stored))
		require.NoError(t, applyImageEdits(ed, imageEdits{clearMain: true}))

		// репозиторий nil: вызов Update привел бы к панике
		_, err := ed.Submit(context.Background())
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLoadStored(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "villa.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"_id": "65f0",
		"title": "Villa",
		"mainImageUrl": "https://x/m.jpg",
		"category": "Residential",
		"otherImages": ["https://x/1.jpg"],
		"createdAt": "2024-01-01T00:00:00Z"
	}`), 0o600))

	stored, err := loadStored(good, nil)
	require.NoError(t, err)
	assert.Equal(t, "65f0", stored.ID)
	assert.Equal(t, "Villa", stored.Title)
	assert.Equal(t, domain.CategoryResidential, stored.Category)
	assert.Equal(t, []string{"https://x/1.jpg"}, stored.OtherImages)
	assert.Empty(t, stored.Description)

	noID := filepath.Join(dir, "noid.json")
	require.NoError(t, os.WriteFile(noID, []byte(`{"title":"x"}`), 0o600))
	_, err = loadStored(noID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = loadStored(filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)

	fromStdin, err := loadStored("-", bufio.NewReader(strings.NewReader(`{"_id":"p9","title":"Piped"}`)))
	require.NoError(t, err)
	assert.Equal(t, "p9", fromStdin.ID)
}

func TestNewPrompter_SharesBufferedStdin(t *testing.T) {
	stdin := bufio.NewReader(strings.NewReader("Villa\nKandy\n"))

	first := newPrompter(stdin, &bytes.Buffer{}, true)
	second := newPrompter(stdin, &bytes.Buffer{}, true)

	assert.Equal(t, "Villa", first.ask("Название"))
	assert.Equal(t, "Kandy", second.ask("Местоположение"))
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer

	printResult(&buf, submitResult{
		Message:  "Project updated successfully",
		EditorID: "0b6c2f1e-8d4a-4c39-9e57-3f1a2b7c9d10",
		Project:  domain.Record{Title: "Villa", OtherImages: []string{"a"}},
		Orphans:  []string{"https://x/old.jpg"},
	})

	out := buf.String()
	assert.Contains(t, out, "Project updated successfully")
	assert.Contains(t, out, "0b6c2f1e-8d4a-4c39-9e57-3f1a2b7c9d10")
	assert.Contains(t, out, "https://x/old.jpg")
}

func TestCategoryList(t *testing.T) {
	assert.Equal(t, "Residential, Commercial, Institutional, Landscape, Public", categoryList())
}
