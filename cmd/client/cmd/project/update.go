package project

import (
	"github.com/spf13/cobra"

	"ssksadmin/cmd/client/cmd/types"
)

var (
	updateFlags    formFlags
	fromPath       string
	removeOther    []int
	clearMainImage bool
)

var UpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Обновить существующий проект",
	Long: `Обновляет проект целиком (PUT /project/update/{id}).

Исходная запись читается из JSON-файла в формате ответа сервера (с полем _id),
флаги переопределяют ее поля. --remove-other удаляет изображения галереи
по индексам исходной записи, --clear-main-image очищает главное изображение.
Оба применяются до новых загрузок. Удаленные изображения остаются
на Cloudinary и выводятся в конце.`,
	Example: `  ssksadmin project update --from villa.json --remove-other 0 --other-image new.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		existing, err := loadStored(fromPath, types.OutputFrom(cmd.Context()).Stdin)
		if err != nil {
			return err
		}
		return runEditor(cmd, existing, updateFlags, imageEdits{removeOther: removeOther, clearMain: clearMainImage})
	},
}

func init() {
	updateFlags.register(UpdateCmd)
	UpdateCmd.Flags().StringVar(&fromPath, "from", "", "JSON-файл проекта с сервера (- для stdin)")
	UpdateCmd.Flags().IntSliceVar(&removeOther, "remove-other", nil, "индекс изображения галереи для удаления (можно повторять)")
	UpdateCmd.Flags().BoolVar(&clearMainImage, "clear-main-image", false, "очистить главное изображение (без --main-image сохранение не пройдет)")
	_ = UpdateCmd.MarkFlagRequired("from")
}
