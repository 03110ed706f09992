package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/scorm/internal/cli"
	httpAdapter "github.com/aretw0/scorm/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Hosts sessions behind a JSON API, streams their events over SSE, receives
LMS commits at /commits and exposes Prometheus metrics at /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		logger := newLogger(cmd, cfg)

		rt, err := cli.NewRuntime(cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing runtime: %v\n", err)
			os.Exit(1)
		}
		defer rt.Close()

		handler := httpAdapter.NewHandler(rt.Manager,
			httpAdapter.WithCommitStore(rt.Backend.Store),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(rt.Gatherer, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting SCORM Server on %s\n", srv.Addr)
			fmt.Printf("Variants: %v, store: %s\n", rt.Manager.Variants(), cfg.Store.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}

			// Running sessions get their final commit
			for _, id := range rt.Manager.List() {
				if err := rt.Manager.Remove(ctx, id); err != nil {
					logger.Warn("failed to close session", "session_id", id, "err", err)
				}
			}
			fmt.Println("SCORM Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
