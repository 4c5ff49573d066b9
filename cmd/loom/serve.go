package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/lorekeep/loom/internal/metrics"
	httpadapter "github.com/lorekeep/loom/pkg/adapters/http"
	"github.com/lorekeep/loom/pkg/adapters/memory"
	redisadapter "github.com/lorekeep/loom/pkg/adapters/redis"
	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve [graph]",
	Short: "Start the HTTP server",
	Long: `Exposes the story graph, conflict analysis, and persistent simulation
runs as a JSON API over HTTP. Runs are stored in memory unless a Redis
address is given, in which case runs survive restarts and replicas
coordinate through distributed locks.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd, args); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for run persistence (e.g. localhost:6379)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database index")
	serveCmd.Flags().Duration("run-ttl", 0, "Expire idle runs after this duration (Redis only, 0 keeps forever)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	eng, err := newEngine(cmd, args)
	if err != nil {
		return fmt.Errorf("error initializing loom: %w", err)
	}

	port, _ := cmd.Flags().GetString("port")
	redisAddr, _ := cmd.Flags().GetString("redis")

	var store ports.RunStore = memory.NewStore()
	sessionOpts := []session.Option{session.WithLogger(logger)}

	if redisAddr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("run-ttl")

		client := backend.NewClient(&backend.Options{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		})
		defer client.Close()

		var storeOpts []redisadapter.Option
		if ttl > 0 {
			storeOpts = append(storeOpts, redisadapter.WithTTL(ttl))
		}
		store = redisadapter.NewFromClient(client, storeOpts...)
		sessionOpts = append(sessionOpts, session.WithLocker(redisadapter.NewLocker(client, "loom:")))
		logger.Info("using redis run store", "addr", redisAddr)
	}

	httpOpts := []httpadapter.Option{httpadapter.WithLogger(logger)}
	if enabled, _ := cmd.Flags().GetBool("metrics"); enabled {
		httpOpts = append(httpOpts, httpadapter.WithMetrics(metrics.New()))
	}

	handler := httpadapter.NewHandler(
		eng.Loader(),
		session.NewManager(store, sessionOpts...),
		httpOpts...,
	)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting loom server", "addr", srv.Addr, "story", eng.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("loom server stopped gracefully")
	}
	return nil
}
