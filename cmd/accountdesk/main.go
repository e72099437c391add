package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"accountdesk/internal/app"
	"accountdesk/internal/platform/config"
	"accountdesk/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(openFromEnv)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// openFromEnv connects to the backend named by ACCOUNTDESK_STORE. With the
// default memory store every invocation starts empty.
func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// Reports go to stdout, so logs go to stderr.
	return app.New(ctx, cfg, logger.NewWithWriter(os.Stderr, cfg.Log), prometheus.NewRegistry())
}
