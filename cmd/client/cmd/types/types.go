// Package types - общие для команд ключи контекста и вывод результата.
package types

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ssksadmin/internal/app/client"
	"ssksadmin/internal/notify"
)

type ctxKey int

const (
	ClientAppKey ctxKey = iota
	OutputKey
)

// Output - режим вывода текущего запуска
type Output struct {
	JSON        bool
	Interactive bool
	// Notices собирает уведомления в режиме --json
	Notices *notify.Recorder
	// Stdin - единственный буферизованный читатель os.Stdin на запуск
	Stdin *bufio.Reader
}

// ReadLine читает строку из общего stdin без перевода строки.
// Без Stdin возвращает пустую строку.
func (o Output) ReadLine() string {
	if o.Stdin == nil {
		return ""
	}
	line, _ := o.Stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// AppFrom достает приложение, созданное в PersistentPreRunE
func AppFrom(ctx context.Context) (*client.App, error) {
	app, ok := ctx.Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

func OutputFrom(ctx context.Context) Output {
	out, ok := ctx.Value(OutputKey).(Output)
	if !ok {
		return Output{}
	}
	return out
}

type jsonResult struct {
	OK      bool            `json:"ok"`
	Result  any             `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Notices []notify.Notice `json:"notices"`
}

// PrintJSON печатает результат команды вместе с накопленными уведомлениями
func PrintJSON(w io.Writer, out Output, result any, cmdErr error) error {
	res := jsonResult{OK: cmdErr == nil, Result: result, Notices: []notify.Notice{}}
	if cmdErr != nil {
		res.Error = cmdErr.Error()
	}
	if out.Notices != nil {
		res.Notices = out.Notices.Notices()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("ошибка вывода JSON: %w", err)
	}
	return cmdErr
}
