package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"ozonseller_api/config"
	"ozonseller_api/internal/ozon/app"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (env only when empty)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config file] <command> [arg]\n\n%s\n\n", os.Args[0], app.ErrUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := app.NewOzonServer(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %s\n", err)
		os.Exit(1)
	}
	defer server.Close()

	if err := server.Run(ctx, flag.Args()); err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, app.ErrUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
