package cli

import (
	"folio/internal/format"
	"folio/internal/model"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect resolved settings and change sort modes",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved app config, the shared config.json and sort modes per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.openService(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer svc.Close()

			sorts := map[model.Kind]map[string]model.SortMode{}
			tab := format.Table{Head: []string{"KIND", "PUBLIC", "ADMIN"}}
			for _, c := range svc.Catalogs() {
				pub, adm := c.SortModes()
				sorts[c.Kind()] = map[string]model.SortMode{"public": pub, "admin": adm}
				tab.Body = append(tab.Body, []string{string(c.Kind()), string(pub), string(adm)})
			}
			return writeData(cmd, app, map[string]any{
				"app":      app.cfg,
				"settings": svc.Settings().Raw(),
				"sort":     sorts,
			}, tab)
		},
	}

	var public, admin string
	sortCmd := &cobra.Command{
		Use:   "sort <kind>",
		Short: "Set the public and/or admin sort mode of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			svc, err := app.openService(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer svc.Close()

			c, err := svc.Catalog(kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.SetSort(public, admin); err != nil {
				return writeErr(cmd, err)
			}
			pub, adm := c.SortModes()
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"kind":   kind,
				"public": pub,
				"admin":  adm,
			}})
		},
	}
	sortCmd.Flags().StringVar(&public, "public", "", "Public sort mode (manual|id|date)")
	sortCmd.Flags().StringVar(&admin, "admin", "", "Admin sort mode (manual|id|date)")

	cmd.AddCommand(showCmd, sortCmd)
	return cmd
}
