package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwebster45206/mythgarden-console/internal/client"
	"github.com/jwebster45206/mythgarden-console/internal/config"
	"github.com/jwebster45206/mythgarden-console/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := logger.SetupFile(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()

	c, err := client.New(cfg.ServerURL, cfg.Timeout, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}

	log.Info("Loading game page", "url", cfg.ServerURL)
	initial, err := c.Bootstrap(context.Background(), uuid.NewString())
	if err != nil {
		log.Error("Failed to load game page", "error", err)
		fmt.Fprintf(os.Stderr, "Could not load Mythgarden from %s: %v\nTry: go run ./cmd/fixture\n", cfg.ServerURL, err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(c, log, initial),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("Console exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
