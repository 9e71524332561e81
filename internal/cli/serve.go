package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"folio/internal/api"
	"folio/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the public and admin JSON API with a websocket change feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			srv, err := api.NewServer(svc, api.Options{Logger: app.logger().Named("api")})
			if err != nil {
				return writeErr(cmd, err)
			}
			w, err := watch.New(app.Dir, watch.Options{Logger: app.logger().Named("watch")})
			if err != nil {
				return writeErr(cmd, fmt.Errorf("watch %s: %w", app.Dir, err))
			}
			defer w.Close()

			addr := app.cfg.Addr
			fmt.Fprintf(cmd.ErrOrStderr(), "folio serving %s at http://%s\n", app.Dir, addr)
			app.logger().Info("serving", zap.String("addr", addr), zap.String("dir", app.Dir))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return w.Run(gctx) })
			g.Go(func() error {
				srv.Pump(gctx, w.Changes())
				return nil
			})
			g.Go(func() error { return srv.ListenAndServe(gctx, addr) })
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Bind address (host:port; env FOLIO_ADDR; default 127.0.0.1:8080)")
	return cmd
}
