package project

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ssksadmin/cmd/client/cmd/types"
	domain "ssksadmin/internal/domain/project"
)

// runEditor проводит запись через редактор: поля, удаления, загрузки, отправка
func runEditor(cmd *cobra.Command, existing *domain.StoredProject, f formFlags, edits imageEdits) error {
	app, err := types.AppFrom(cmd.Context())
	if err != nil {
		return err
	}
	out := types.OutputFrom(cmd.Context())
	finish := func(res any, err error) error {
		if out.JSON {
			return types.PrintJSON(os.Stdout, out, res, err)
		}
		return err
	}

	if !app.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "⚠️  Сессия не найдена, сервер может отклонить запрос. Выполните вход: ssksadmin auth login")
	}

	base := domain.Record{}
	if existing != nil {
		base = existing.Record
	}
	var stdin io.Reader = os.Stdin
	if out.Stdin != nil {
		stdin = out.Stdin
	}
	rec, err := collectFields(base, f, newPrompter(stdin, os.Stderr, out.Interactive))
	if err != nil {
		return finish(nil, err)
	}

	ctx := cmd.Context()
	ed, err := app.OpenEditor(ctx, existing, nil)
	if err != nil {
		return finish(nil, err)
	}
	defer ed.Close()

	if err := applyFields(ed, rec); err != nil {
		return finish(nil, err)
	}
	if err := applyImageEdits(ed, edits); err != nil {
		return finish(nil, err)
	}
	if err := uploadImages(ctx, app, ed, f); err != nil {
		return finish(nil, err)
	}

	msg, err := ed.Submit(ctx)
	if err != nil {
		return finish(nil, err)
	}

	res := submitResult{Message: msg, EditorID: ed.ID(), Project: ed.Snapshot(), Orphans: ed.Reconcile()}
	if out.JSON {
		return finish(res, nil)
	}
	printResult(os.Stdout, res)
	return nil
}
