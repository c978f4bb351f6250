package project

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ssksadmin/internal/app/client"
	"ssksadmin/internal/domain/media"
	domain "ssksadmin/internal/domain/project"
	"ssksadmin/internal/notify"
)

// formFlags - поля формы, пришедшие из флагов
type formFlags struct {
	title       string
	description string
	category    string
	location    string
	mainImage   string
	otherImages []string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "название проекта")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "описание проекта")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "категория: "+categoryList())
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "местоположение проекта")
	cmd.Flags().StringVar(&f.mainImage, "main-image", "", "файл главного изображения")
	cmd.Flags().StringArrayVar(&f.otherImages, "other-image", nil, "файл изображения галереи (можно повторять)")
}

// prompter запрашивает незаполненные поля, если stdin - терминал
type prompter struct {
	in      *bufio.Reader
	out     io.Writer
	enabled bool
}

// newPrompter читает из общего буфера stdin, если in уже *bufio.Reader
func newPrompter(in io.Reader, out io.Writer, enabled bool) *prompter {
	return &prompter{in: notify.Buffered(in), out: out, enabled: enabled}
}

func (p *prompter) ask(label string) string {
	if !p.enabled {
		return ""
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// collectFields накладывает флаги и ответы на текстовые поля записи.
// Location обязателен на уровне ввода, остальное проверяет редактор при отправке.
func collectFields(base domain.Record, f formFlags, p *prompter) (domain.Record, error) {
	rec := base.Clone()

	if f.title != "" {
		rec.Title = f.title
	}
	if f.description != "" {
		rec.Description = f.description
	}
	if f.location != "" {
		rec.Location = f.location
	}
	if f.category != "" {
		c, err := domain.ParseCategory(f.category)
		if err != nil {
			return domain.Record{}, err
		}
		rec.Category = c
	}

	if rec.Title == "" {
		rec.Title = p.ask("Название")
	}
	if rec.Location == "" {
		rec.Location = p.ask("Местоположение")
	}
	if rec.Category == "" {
		if answer := p.ask("Категория (" + categoryList() + ")"); answer != "" {
			c, err := domain.ParseCategory(answer)
			if err != nil {
				return domain.Record{}, err
			}
			rec.Category = c
		}
	}
	if rec.Description == "" {
		rec.Description = p.ask("Описание")
	}

	if rec.Location == "" {
		return domain.Record{}, fmt.Errorf("%w: укажите --location", domain.ErrValidation)
	}
	return rec, nil
}

func applyFields(ed *domain.Editor, rec domain.Record) error {
	if err := ed.SetTitle(rec.Title); err != nil {
		return err
	}
	if err := ed.SetDescription(rec.Description); err != nil {
		return err
	}
	if err := ed.SetCategory(rec.Category); err != nil {
		return err
	}
	return ed.SetLocation(rec.Location)
}

// imageEdits - локальные изменения изображений до новых загрузок
type imageEdits struct {
	removeOther []int
	clearMain   bool
}

// applyImageEdits применяет удаления до загрузок, чтобы новый --main-image заменил очищенный
func applyImageEdits(ed *domain.Editor, edits imageEdits) error {
	if err := removeOthers(ed, edits.removeOther); err != nil {
		return err
	}
	if edits.clearMain {
		return ed.ClearMainImage()
	}
	return nil
}

// removeOthers удаляет изображения галереи по исходным индексам
func removeOthers(ed *domain.Editor, indexes []int) error {
	sorted := append([]int(nil), indexes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	prev := -1
	for _, i := range sorted {
		if i == prev {
			continue
		}
		prev = i
		if err := ed.RemoveOtherImage(i); err != nil {
			return err
		}
	}
	return nil
}

// uploadImages загружает главное изображение и галерею.
// Ошибки отдельных загрузок уже показаны пользователю и не прерывают работу.
func uploadImages(ctx context.Context, app *client.App, ed *domain.Editor, f formFlags) error {
	if f.mainImage != "" {
		file, err := media.ReadFile(f.mainImage)
		if err != nil {
			return err
		}
		_, _ = ed.Upload(ctx, domain.SlotMain, file)
	}

	if len(f.otherImages) == 0 {
		return nil
	}
	files := make([]media.File, 0, len(f.otherImages))
	for _, path := range f.otherImages {
		file, err := media.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}
	app.UploadOthers(ctx, ed, files)
	return nil
}

// loadStored читает запись с сервера из файла или из stdin при path == "-"
func loadStored(path string, stdin *bufio.Reader) (*domain.StoredProject, error) {
	var r io.Reader = os.Stdin
	if stdin != nil {
		r = stdin
	}
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var stored domain.StoredProject
	if err := json.NewDecoder(r).Decode(&stored); err != nil {
		return nil, fmt.Errorf("ошибка чтения проекта: %w", err)
	}
	if stored.ID == "" {
		return nil, fmt.Errorf("%w: в проекте нет _id", domain.ErrValidation)
	}
	return &stored, nil
}

type submitResult struct {
	Message  string        `json:"message"`
	EditorID string        `json:"editor_id"`
	Project  domain.Record `json:"project"`
	Orphans  []string      `json:"orphaned_images,omitempty"`
}

func printResult(w io.Writer, res submitResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✅ %s\n", res.Message)
	fmt.Fprintf(w, "  Сессия редактора: %s\n", res.EditorID)
	fmt.Fprintf(w, "  Название: %s\n", res.Project.Title)
	fmt.Fprintf(w, "  Категория: %s\n", res.Project.Category)
	fmt.Fprintf(w, "  Главное изображение: %s\n", res.Project.MainImageURL)
	fmt.Fprintf(w, "  Изображений в галерее: %d\n", len(res.Project.OtherImages))
	if len(res.Orphans) > 0 {
		fmt.Fprintln(w, "Изображения больше не используются проектом и остались на Cloudinary:")
		for _, u := range res.Orphans {
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
}

func categoryList() string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
