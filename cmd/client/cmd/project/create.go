package project

import (
	"github.com/spf13/cobra"
)

var createFlags formFlags

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать новый проект",
	Long: `Создает проект на сервере (POST /project/save).

Обязательны название, главное изображение, описание и категория.
Незаполненные поля запрашиваются, если stdin - терминал.`,
	Example: `  ssksadmin project create -t "Villa" -c Residential -l Colombo \
    -d "Two floors" --main-image main.jpg --other-image 1.jpg --other-image 2.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runEditor(cmd, nil, createFlags, imageEdits{})
	},
}

func init() {
	createFlags.register(CreateCmd)
}
