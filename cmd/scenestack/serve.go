package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	scenestack "github.com/scenestack/scenestack"
	"github.com/scenestack/scenestack/internal/cli"
	"github.com/scenestack/scenestack/internal/metrics"
	httpAdapter "github.com/scenestack/scenestack/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long:  `Starts the scene stack behind a JSON API, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		port, _ := cmd.Flags().GetString("port")

		registry := prometheus.NewRegistry()
		recorder := metrics.NewRecorder(registry)

		session, err := cli.NewSession(opts, scenestack.WithObserver(recorder))
		if err != nil {
			fmt.Printf("Error initializing scenestack: %v\n", err)
			os.Exit(1)
		}

		if err := session.Director.Switch(context.Background(), session.FirstScene, nil); err != nil {
			fmt.Printf("Error entering %s: %v\n", session.FirstScene, err)
			os.Exit(1)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Handle("/", httpAdapter.NewHandler(session.Director,
			httpAdapter.WithHistory(session.History),
			httpAdapter.WithLogger(session.Logger),
		))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting scenestack server on %s\n", srv.Addr)
			fmt.Printf("Scenes from: %s\n", opts.ConfigPath)
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
			fmt.Println("scenestack server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
