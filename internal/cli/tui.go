package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"folio/internal/model"
	"folio/internal/tui"
	"folio/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTUICmd(app *App) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal admin panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Kind shown first (projects|skills|certifications)")
	return cmd
}

func runTUI(cmd *cobra.Command, app *App, kind string) error {
	opts := tui.Options{Logger: app.logger().Named("tui")}
	if kind != "" {
		k, err := model.ParseKind(kind)
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Kind = k
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(app.Dir, 0o755); err != nil {
		return writeErr(cmd, err)
	}
	svc, err := app.openService(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer svc.Close()

	// Reloading after external edits is best effort; the panel works without it.
	if w, err := watch.New(app.Dir, watch.Options{Logger: app.logger().Named("watch")}); err != nil {
		app.logger().Warn("watch disabled", zap.Error(err))
	} else {
		wctx, cancel := context.WithCancel(ctx)
		defer func() {
			cancel()
			_ = w.Close()
			<-w.Done()
		}()
		go func() { _ = w.Run(wctx) }()
		opts.Changes = w.Changes()
	}

	if err := tui.Run(ctx, svc.Catalogs(), opts); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
