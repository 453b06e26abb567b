package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/billsync/internal/client/cli"
	"github.com/dmitrijs2005/billsync/internal/client/config"
	"github.com/dmitrijs2005/billsync/internal/logging"
	_ "modernc.org/sqlite"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := app.Close(ctx); err != nil {
			logger.Error(ctx, "close failed", "error", err)
		}
	}()

	app.Run(ctx)

}
