package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"mj-blocks/internal/config"
	"mj-blocks/internal/container"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: ./mjblocks.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)

	c, err := container.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	app := &application{
		logger:   logger,
		manager:  c.Manager,
		theme:    c.Theme,
		filesDir: cfg.Media.FilesDir,
		lang:     c.Translator.Locale(),
	}

	addr := fmt.Sprintf(":%d", cfg.Server.PublicPort)
	logger.Info("Starting server", "address", fmt.Sprintf("http://localhost%s", addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
