/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the discount dashboard server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load optional .env file, then flags (flags win)
  2. Configure zerolog
  3. Build the discount store (process-wide singleton lifetime)
  4. Optionally load a demo scenario
  5. Start server with graceful shutdown

CONFIGURATION:
  -port        HTTP server port             (env PORT, default 8080)
  -origins     Comma-separated CORS origins (env CORS_ORIGINS)
  -latency-ms  Simulated network latency    (env SIMULATED_LATENCY_MS, default 0)
  -scenario    Demo scenario to load at boot (env SEED_SCENARIO, empty = none)
  -pretty      Human-readable console logs

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM the server stops accepting connections and waits up
  to 30s for active requests. Store state is memory-resident and is lost
  on exit by design.

SEE ALSO:
  - api/server.go: Router configuration
  - discount/store.go: The engine being served
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/warp/discount-engine/api"
	"github.com/warp/discount-engine/discount"
)

func main() {
	// .env is optional; flags below override it.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	origins := flag.String("origins", envStr("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), "comma-separated CORS origins")
	latencyMS := flag.Int("latency-ms", envInt("SIMULATED_LATENCY_MS", 0), "simulated network latency in milliseconds (0 = off)")
	scenario := flag.String("scenario", envStr("SEED_SCENARIO", ""), "demo scenario to load at boot")
	pretty := flag.Bool("pretty", false, "human-readable console logs")
	flag.Parse()

	log := newLogger(*pretty)

	// The store is the one process-wide instance; everything else gets it
	// injected.
	store := discount.NewStore(discount.WithLogger(log))
	handler := api.NewHandler(store, log)

	if *scenario != "" {
		if err := api.LoadSeedScenario(store, *scenario); err != nil {
			log.Fatal().Err(err).Str("scenario", *scenario).Msg("failed to load seed scenario")
		}
		log.Info().Str("scenario", *scenario).Msg("seed scenario loaded")
	}

	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: strings.Split(*origins, ","),
		Latency:        time.Duration(*latencyMS) * time.Millisecond,
		Log:            log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newLogger(pretty bool) zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
