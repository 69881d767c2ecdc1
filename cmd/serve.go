package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/storycache/observe"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP server",
		Long: `Starts the health, metrics, and cache maintenance endpoints.

The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := root.load(ctx)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			a, err := newApp(ctx, cfg, appOptions{})
			if err != nil {
				return err
			}

			lis, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return errors.Join(err, a.shutdown(ctx))
			}
			return serve(ctx, lis, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// serve runs the admin server on lis until ctx is done, then shuts the
// server and telemetry down within the configured timeout.
func serve(ctx context.Context, lis net.Listener, a *app) error {
	logger := a.observer.Logger()

	handler, err := a.adminHandler()
	if err != nil {
		_ = lis.Close()
		return errors.Join(err, a.shutdown(context.WithoutCancel(ctx)))
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()
	logger.Info(ctx, "admin server listening",
		observe.Field{Key: "addr", Value: lis.Addr().String()},
		observe.Field{Key: "backend", Value: a.backend},
	)
	if !a.cfg.Auth.Enabled {
		logger.Warn(ctx, "admin routes are unauthenticated: anyone reaching the server can clear the cache",
			observe.Field{Key: "addr", Value: lis.Addr().String()},
			observe.Field{Key: "hint", Value: "set auth.enabled and auth.signing_key"},
		)
	}

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info(shutdownCtx, "admin server shutting down")
	return errors.Join(err, srv.Shutdown(shutdownCtx), a.shutdown(shutdownCtx))
}
