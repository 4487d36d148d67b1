// Package main is the entry point for the envdeck server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/envdeck/envdeck/internal/chat"
	"github.com/envdeck/envdeck/internal/config"
	"github.com/envdeck/envdeck/internal/handlers"
	"github.com/envdeck/envdeck/internal/runtime"
	"github.com/envdeck/envdeck/internal/store"
	"github.com/envdeck/envdeck/internal/vault"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: logLevel}
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Info("starting envdeck",
		"version", version,
		"data_dir", cfg.Vault.DataDir,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := os.MkdirAll(cfg.Vault.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	boltStore, err := store.NewBoltStore(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}

	// The runtime store owns what used to live in the process
	// environment; it is seeded once at startup and mutated only
	// through the vault.
	rt := runtime.NewStore()
	rt.SeedFromEnviron(os.Environ())

	v, err := vault.New(vault.Options{
		Store:      boltStore,
		Runtime:    rt,
		Key:        cfg.Vault.Key,
		Passphrase: cfg.Vault.Passphrase,
		KeyFile:    cfg.Vault.KeyFile,
		Logger:     logger,
	})
	if err != nil {
		boltStore.Close()
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer v.Close()

	var chatBackend chat.Backend
	apiKey := cfg.Chat.APIKey
	if apiKey == "" {
		if resolved, err := v.Resolve("GEMINI_API_KEY"); err == nil {
			apiKey = resolved
		}
	}
	if apiKey != "" {
		chatBackend, err = chat.NewGeminiBackend(ctx, apiKey, cfg.Chat.Model)
		if err != nil {
			return fmt.Errorf("failed to create chat backend: %w", err)
		}
		logger.Info("chat backend ready", "model", cfg.Chat.Model)
	} else {
		logger.Warn("no chat API key configured, chat streaming disabled")
	}

	router := handlers.NewRouter(&handlers.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Vault:       v,
		ChatBackend: chatBackend,
	})

	// No WriteTimeout: chat streams stay open longer than any fixed
	// write deadline. Non-streaming routes carry their own timeout
	// middleware.
	server := &http.Server{
		Addr:        cfg.ServerAddr(),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.ServerAddr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
