package logger

import (
	"io"
	"os"

	"golang.org/x/exp/slog"

	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/utils/logger/slogpretty"
)

// New создает логгер под окружение: local - цветной debug, dev - json debug, prod - json info.
// Логи пишутся в stderr, stdout остается для вывода команд.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter - то же, что New, но с произвольным приемником.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == config.EnvProd {
		level = slog.LevelInfo
	}
	return build(env, level, w)
}

// NewWithLevel создает логгер окружения с явным уровнем (LOG_LEVEL или --debug)
func NewWithLevel(env string, level slog.Level) *slog.Logger {
	return build(env, level, os.Stderr)
}

// ParseLevel разбирает уровень вида debug, info, warn, error
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

func build(env string, level slog.Level, w io.Writer) *slog.Logger {
	switch env {
	case config.EnvDev, config.EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return setupPrettySlog(w, level)
	}
}

func setupPrettySlog(w io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	return slog.New(opts.NewPrettyHandler(w))
}
