// cmd/client/cmd/root.go
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/exp/slog"

	"ssksadmin/cmd/client/cmd/types"
	"ssksadmin/internal/app/client"
	"ssksadmin/internal/app/client/config"
	"ssksadmin/internal/notify"
	"ssksadmin/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "ssksadmin",
	Short: "ssksadmin - клиент администратора портфолио SSKS Architect",
	Long: `ssksadmin - консольный клиент администратора портфолио проектов.

Позволяет войти в панель администратора, создавать и обновлять проекты,
загружая изображения на Cloudinary.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	// Загружаем конфигурацию
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.APIURL = config.NormalizeURL(serverURL)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("некорректный --server: %w", err)
		}
	}

	// Настраиваем логгер
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("некорректный LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	if debug {
		level = slog.LevelDebug
	}
	log = logger.NewWithLevel(cfg.Env, level)

	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	out := types.Output{
		JSON:        jsonOutput,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		Stdin:       bufio.NewReader(os.Stdin),
	}
	var notifier notify.Notifier
	if out.JSON {
		// stdout занят JSON-результатом, уведомления дублируются в stderr без ожидания Enter
		out.Notices = notify.NewRecorder()
		notifier = notify.Multi{out.Notices, notify.NewTerminal(os.Stderr, nil)}
	} else {
		var in io.Reader
		if out.Interactive {
			in = out.Stdin
		}
		notifier = notify.NewTerminal(os.Stdout, in)
	}

	// Создаем приложение
	app, err = client.New(cfg, log, client.WithNotifier(notifier))
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), types.ClientAppKey, app)
	ctx = context.WithValue(ctx, types.OutputKey, out)
	cmd.SetContext(ctx)

	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Ищем конфиг в стандартных местах
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		configDir := filepath.Join(home, ".ssksadmin")
		viper.AddConfigPath(configDir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Конфиг не найден, используем значения по умолчанию
	}

	return config.Load()
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL сервера API")

	// Команды будут добавлены в init() соответствующих файлов
}
