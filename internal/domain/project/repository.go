package project

import "context"

// Repository сохраняет записи на сервере и возвращает его сообщение
type Repository interface {
	Create(ctx context.Context, rec Record) (string, error)
	Update(ctx context.Context, id string, rec Record) (string, error)
}
