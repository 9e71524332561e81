package cli

import (
	"strconv"
	"time"

	"folio/internal/format"
	"folio/internal/model"
	"folio/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var (
		kind  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List journaled store mutations (oldest-first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := store.ListOptions{Limit: limit}
			if kind != "" {
				k, err := model.ParseKind(kind)
				if err != nil {
					return writeErr(cmd, err)
				}
				opts.Kind = k
			}
			svc, err := app.openService(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer svc.Close()

			evs, err := svc.Events(cmd.Context(), opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			tab := format.Table{Head: []string{"SEQ", "TIME", "KIND", "ID", "TYPE"}}
			for _, ev := range evs {
				tab.Body = append(tab.Body, []string{
					strconv.FormatInt(ev.Seq, 10),
					ev.TS.Format(time.RFC3339),
					string(ev.Kind),
					ev.EntityID,
					ev.Type,
				})
			}
			var hints []string
			if svc.Journal() == nil {
				hints = []string{"journal is disabled (journal: false in folio.yaml or FOLIO_JOURNAL=false)"}
			}
			return writeData(cmd, app, evs, tab, hints...)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only events for this kind")
	cmd.Flags().IntVar(&limit, "limit", 200, "Newest events to return (0 = all retained)")
	return cmd
}
