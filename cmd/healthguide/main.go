package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bytebender77/healthguide/internal/cli"
	"github.com/bytebender77/healthguide/internal/util"
)

func main() {
	loadEnvironment()
	initializeLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("healthguide exited with error", "error", err)
		os.Exit(1)
	}
}

// loadEnvironment loads configuration from a .env file when present.
func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}
}

// initializeLogger sets up structured logging. Debug level is opt-in so log lines
// do not interleave with the interactive chat by default.
func initializeLogger() {
	level := slog.LevelWarn
	if util.ParseBoolEnv("HEALTHGUIDE_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
