package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/presentation/tui"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the engine as a JSON API: POST /runs, GET /runs, GET|DELETE /runs/{id},
POST /validate, GET /events (SSE feed of finished runs), GET /healthz and
GET /metrics (Prometheus).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			app.cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}
		if !cmd.Flags().Changed("store") && app.cfg.Store == config.StoreNone {
			app.cfg.Store = config.StoreMemory
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		store, closer, err := cli.NewStore(ctx, app.cfg, app.logger)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, closer)

		metrics := observability.NewMetrics()
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics.MustRegister(registry)

		handler := httpAdapter.NewHandler(
			httpAdapter.WithLogger(app.logger),
			httpAdapter.WithStore(store),
			httpAdapter.WithMaxSteps(app.cfg.MaxSteps),
			httpAdapter.WithBlank(app.cfg.BlankSymbol()),
			httpAdapter.WithLifecycleHooks(metrics.Hooks()),
			httpAdapter.WithMetrics(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		)
		srv := &http.Server{
			Addr:              app.cfg.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			serverErrors <- srv.ListenAndServe()
		}()

		out := cmd.OutOrStdout()
		if tui.IsTerminal(out) {
			tui.PrintBanner(out, tui.Profile(out))
		}
		fmt.Fprintf(out, "Starting turing server on %s (store: %s)\n", srv.Addr, app.cfg.Store)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			fmt.Fprintf(out, "\nStart shutdown... Signal: %v\n", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(out, "turing server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addEngineFlags(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
