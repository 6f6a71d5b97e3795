package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jbutlerdev/tasks/internal/api"
	"github.com/jbutlerdev/tasks/internal/config"
	"github.com/jbutlerdev/tasks/internal/storage"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (JSON API, web UI, export)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []storage.Option
			switch {
			case app.Config.SeedFile != "":
				seed, err := storage.LoadSeedFile(app.Config.SeedFile)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("serve: %w", err))
				}
				opts = append(opts, storage.WithSeed(seed))
			case app.Config.Seed:
				opts = append(opts, storage.WithSeed(storage.DefaultSeed()))
			}
			store := storage.NewMemoryStore(opts...)

			router, err := api.NewRouter(store, app.assets, app.logger)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("serve: %w", err))
			}

			ln, err := net.Listen("tcp", app.Config.Addr)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("serve: %w", err))
			}

			srv := &http.Server{
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.logger.Info("server listening", "addr", ln.Addr().String(), "tasks", store.Len())
				errCh <- srv.Serve(ln)
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return writeErr(cmd, fmt.Errorf("serve: %w", err))
				}
				return nil
			case <-ctx.Done():
			}

			app.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, fmt.Errorf("serve: shutdown: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&app.Config.Addr, "addr", app.Config.Addr, "Listen address (env "+config.EnvAddr+")")
	cmd.Flags().BoolVar(&app.Config.Seed, "seed", app.Config.Seed, "Start with the two fixture tasks (env "+config.EnvSeed+")")
	cmd.Flags().StringVar(&app.Config.SeedFile, "seed-file", app.Config.SeedFile, "Start with the tasks in this JSON file instead of the fixtures (env "+config.EnvSeedFile+")")
	return cmd
}
