// cmd/client/cmd/auth/login.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ssksadmin/cmd/client/cmd/types"
	"ssksadmin/internal/domain/session"
)

var (
	email    string
	password string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в панель администратора",
	Long: `Аутентификация администратора на сервере.

После входа ответ сервера и cookie сессии сохраняются локально
для последующих операций с проектами.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}
		out := types.OutputFrom(cmd.Context())

		creds := session.Credentials{Email: email, Password: password}
		if out.Interactive {
			creds, err = promptCredentials(out, os.Stderr, creds, func() ([]byte, error) {
				return term.ReadPassword(int(os.Stdin.Fd()))
			})
			if err != nil {
				return err
			}
		}

		// Выполняем вход
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		sess, err := app.Login(ctx, creds)
		if out.JSON {
			if err != nil {
				return types.PrintJSON(os.Stdout, out, nil, err)
			}
			return types.PrintJSON(os.Stdout, out, sess.Payload, nil)
		}
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Вход выполнен успешно!")
		return printDashboard(os.Stdout, sess)
	},
}

// promptCredentials запрашивает незаполненные email и пароль через общий stdin.
// Если пароль уже лежит в буфере stdin, он читается оттуда, иначе без эха через readPassword.
func promptCredentials(out types.Output, w io.Writer, creds session.Credentials, readPassword func() ([]byte, error)) (session.Credentials, error) {
	fmt.Fprintln(w, "=== Вход в панель администратора ===")
	fmt.Fprintln(w)

	// Запрашиваем email
	if creds.Email == "" {
		fmt.Fprint(w, "Email: ")
		creds.Email = out.ReadLine()
	}

	// Запрашиваем пароль
	if creds.Password == "" {
		fmt.Fprint(w, "Пароль: ")
		if out.Stdin != nil && out.Stdin.Buffered() > 0 {
			creds.Password = out.ReadLine()
		} else {
			pw, err := readPassword()
			if err != nil {
				return creds, fmt.Errorf("ошибка чтения пароля: %w", err)
			}
			creds.Password = string(pw)
		}
		fmt.Fprintln(w)
	}
	return creds, nil
}

// printDashboard показывает панель администратора с данными входа
func printDashboard(w io.Writer, sess session.Session) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Панель администратора ===")

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, sess.Payload, "", "  "); err != nil {
		return fmt.Errorf("ошибка форматирования сессии: %w", err)
	}
	fmt.Fprintln(w, pretty.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Создать проект: ssksadmin project create")
	return nil
}

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "email администратора")
	LoginCmd.Flags().StringVarP(&password, "password", "p", "", "пароль (если не указан, будет запрошен)")
}
