package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/cli/config"
	controller "github.com/m-mizutani/releasecheck/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server for release lookups",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting releasecheck server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("github", githubCfg),
			)

			releaseUC, err := newReleaseUseCase(&githubCfg)
			if err != nil {
				return err
			}

			server, err := controller.NewServer(
				ctx,
				releaseUC,
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			return runServer(ctx, server.Server)
		},
	}
}

// runServer serves until the context is canceled, a termination signal
// arrives or the listener fails, then shuts the server down.
func runServer(ctx context.Context, server *http.Server) error {
	logger := ctxlog.From(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", server.Addr))
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	case sig := <-sigChan:
		logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}

	logger.Info("Server shutdown complete")
	return nil
}
