// cmd/client/cmd/init.go
package cmd

import (
	"fmt"
	"os"

	"ssksadmin/cmd/client/cmd/auth"
	"ssksadmin/cmd/client/cmd/project"
	"ssksadmin/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

type initResult struct {
	ConfigDir     string `json:"config_dir"`
	DataPath      string `json:"data_path"`
	MemoryStorage bool   `json:"memory_storage"`
	Server        string `json:"server"`
	ServerOK      bool   `json:"server_ok"`
	ServerError   string `json:"server_error,omitempty"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Инициализировать клиент ssksadmin",
	Long: `Команда init выполняет первоначальную настройку клиента:
	1. Создает директорию конфигурации
	2. Открывает локальное хранилище и применяет миграции
	3. Проверяет соединение с сервером`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}
		out := types.OutputFrom(cmd.Context())

		res := initResult{
			ConfigDir:     cfg.ConfigDir,
			DataPath:      cfg.DataPath,
			MemoryStorage: app.UsesMemoryStorage(),
			Server:        cfg.APIURL,
		}

		if err := app.InitStorage(cmd.Context()); err != nil {
			if out.JSON {
				return types.PrintJSON(os.Stdout, out, res, err)
			}
			return fmt.Errorf("ошибка инициализации хранилища: %w", err)
		}

		if err := app.CheckConnection(cmd.Context()); err != nil {
			res.ServerError = err.Error()
		} else {
			res.ServerOK = true
		}

		if out.JSON {
			return types.PrintJSON(os.Stdout, out, res, nil)
		}

		fmt.Println("=== Инициализация ssksadmin ===")
		fmt.Println()
		fmt.Printf("Директория конфигурации: %s\n", res.ConfigDir)
		if res.MemoryStorage {
			fmt.Println("⚠️  SQLite недоступен, данные хранятся только в памяти")
		} else {
			fmt.Printf("✓ Хранилище готово: %s\n", res.DataPath)
		}
		if res.ServerOK {
			fmt.Printf("✓ Соединение с сервером установлено: %s\n", res.Server)
		} else {
			fmt.Printf("⚠️  Предупреждение: не удалось подключиться к серверу: %s\n", res.ServerError)
		}

		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Войдите в панель администратора: ssksadmin auth login")
		fmt.Println("2. Создайте первый проект: ssksadmin project create")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	// Добавляем команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.StatusCmd)

	// Добавляем команды работы с проектами
	rootCmd.AddCommand(project.ProjectCmd)
	project.ProjectCmd.AddCommand(project.CreateCmd)
	project.ProjectCmd.AddCommand(project.UpdateCmd)
}
