package media

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File - выбранный пользователем файл изображения
type File struct {
	Name string
	Data []byte
}

// Size возвращает размер файла в байтах
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// Reader возвращает новый reader по содержимому
func (f File) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// ReadFile читает файл с диска
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}

// UploadResult - ответ хостинга изображений на одну загрузку
type UploadResult struct {
	URL string `json:"secure_url"`
}
