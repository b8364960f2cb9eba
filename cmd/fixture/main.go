// Command fixture runs a local stand-in for the Mythgarden server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/mythgarden-console/internal/config"
	"github.com/jwebster45206/mythgarden-console/internal/fixture"
	"github.com/jwebster45206/mythgarden-console/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Mythgarden fixture server",
		"port", cfg.Port,
		"environment", cfg.Environment)

	storeCtx, storeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer storeCancel()

	store, err := fixture.NewStore(storeCtx, cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to connect to session storage", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     fixture.NewServer(store, log).Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing session storage", "error", err)
	}

	log.Info("Server exited")
}
