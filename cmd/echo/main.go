package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"github.com/thereayou/echo-messenger/cmd/server"
	"github.com/thereayou/echo-messenger/internal/clock"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb, err := server.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing connections...")
		_ = rdb.Close()
		_ = db.Close()
	}()

	srv, err := server.New(cfg, db, rdb, clock.Real(), log)
	if err != nil {
		return err
	}
	if err := srv.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped cleanly")
	return nil
}
