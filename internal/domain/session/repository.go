package session

import "context"

// Authenticator отправляет учетные данные на сервер
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
}

// Store - долговременное хранилище клиента
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
