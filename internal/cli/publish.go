package cli

import (
	"folio/internal/gitrepo"
	"folio/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		toDir     string
		overwrite bool
		admin     bool
		commit    bool
		message   string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the public view as Markdown pages (index, one listing per kind, one page per record)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.openService(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer svc.Close()

			res, err := publish.WriteSite(svc.Catalogs(), toDir, publish.WriteOptions{
				Overwrite: overwrite,
				Admin:     admin,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if !commit {
				return writeOut(cmd, app, envelope{
					Data:  res,
					Hints: []string{"folio publish --to " + toDir + " --overwrite --commit"},
				})
			}
			committed, err := gitrepo.CommitPaths(cmd.Context(), toDir, res.Written, message)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"written":   res.Written,
				"committed": committed,
			}})
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Destination directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	cmd.Flags().BoolVar(&admin, "admin", false, "Use admin sort modes instead of public ones")
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the written files when --to is inside a git work tree")
	cmd.Flags().StringVar(&message, "message", "", "Commit message for --commit")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
