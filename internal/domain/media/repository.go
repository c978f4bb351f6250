package media

import "context"

// Validator решает, можно ли загружать файл
type Validator interface {
	Validate(f File) error
}

// Uploader загружает одно изображение на внешний хостинг
type Uploader interface {
	Upload(ctx context.Context, f File) (UploadResult, error)
}
