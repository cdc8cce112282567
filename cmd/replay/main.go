package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deal-notifier-go/pkg/api"
	"deal-notifier-go/pkg/config"
	"deal-notifier-go/pkg/services"
)

func main() {
	var (
		captureFile = flag.String("capture", "", "Run capture to replay (overrides replay.capture_file)")
		intervalMS  = flag.Int("interval", -1, "Delay between events in ms (overrides replay.interval_ms)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *captureFile != "" {
		cfg.Replay.CaptureFile = *captureFile
	}
	if *intervalMS >= 0 {
		cfg.Replay.IntervalMS = *intervalMS
	}

	replay, err := services.LoadReplayService(cfg.Replay.CaptureFile, time.Duration(cfg.Replay.IntervalMS)*time.Millisecond)
	if err != nil {
		log.Fatalf("failed to load capture: %v", err)
	}
	settings := services.NewMemorySettings(cfg.Settings.Currency)

	router := api.NewRouter(cfg, replay, settings)

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Replay.Host, cfg.Replay.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: a run stream stays open for the whole replay
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("replay server starting on %s (capture %s)", srv.Addr, cfg.Replay.CaptureFile)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
