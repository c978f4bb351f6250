package session

import (
	"encoding/json"
	"fmt"
)

// StorageKey - ключ, под которым хранится полезная нагрузка последнего входа
const StorageKey = "admin"

// Credentials живут только на время отправки формы входа
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session - непрозрачный ответ сервера на успешный вход, хранится как есть
type Session struct {
	Payload json.RawMessage
}

// Decode разбирает полезную нагрузку в произвольную структуру
func (s Session) Decode(v any) error {
	if len(s.Payload) == 0 {
		return fmt.Errorf("empty session payload")
	}
	return json.Unmarshal(s.Payload, v)
}

// LoginResult - ответ эндпоинта входа
type LoginResult struct {
	Status  int
	Payload json.RawMessage
}
