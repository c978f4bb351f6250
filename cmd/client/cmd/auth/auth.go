package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для всех операций с сессией администратора
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Вход администратора",
	Long:  `Вход в панель администратора и просмотр сохраненной сессии.`,
}
