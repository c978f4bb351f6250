package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ssksadmin/cmd/client/cmd/types"
	"ssksadmin/internal/domain/session"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать сохраненную сессию",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFrom(cmd.Context())
		if err != nil {
			return err
		}
		out := types.OutputFrom(cmd.Context())

		sess, err := app.Session(cmd.Context())
		if errors.Is(err, session.ErrNoSession) {
			err = fmt.Errorf("сессия не найдена. Выполните вход: ssksadmin auth login")
		}
		if out.JSON {
			if err != nil {
				return types.PrintJSON(os.Stdout, out, nil, err)
			}
			return types.PrintJSON(os.Stdout, out, sess.Payload, nil)
		}
		if err != nil {
			return err
		}

		fmt.Println("✓ Вход выполнен")
		return printDashboard(os.Stdout, sess)
	},
}
