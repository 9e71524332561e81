package cli

import (
	"folio/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data dir and write default content for missing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := store.SeedDefaults(app.Dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Opening once creates the journal when enabled.
			svc, err := app.openService(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer svc.Close()

			data := map[string]any{
				"dir":     app.Dir,
				"created": created,
			}
			if app.cfg.Journal {
				data["journal"] = svc.Layout.JournalPath()
			}
			return writeOut(cmd, app, envelope{
				Data:  data,
				Hints: []string{"folio projects list --grouped", "folio serve"},
			})
		},
	}
}
