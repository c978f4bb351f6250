package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Storage - локальное key/value хранилище клиента
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
