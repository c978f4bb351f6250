package project

import (
	"github.com/spf13/cobra"
)

// ProjectCmd - родительская команда для создания и обновления проектов
var ProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Управление проектами портфолио",
	Long: `Создание и обновление проектов с загрузкой изображений.

Главное изображение заменяет прежнее, изображения галереи добавляются
в конец в порядке завершения загрузки.`,
}
