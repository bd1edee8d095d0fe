// Command seed creates the starter events from a YAML file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"eventhub/config"
	"eventhub/internal/repository"
	"eventhub/internal/seed"
	"eventhub/internal/services"
)

func main() {
	path := flag.String("file", "seed/events.yaml", "path to the seed YAML file")
	flag.Parse()

	cfg, err := config.Load()
	logger := config.NewLogger()
	if err != nil {
		logger.Error("configuration error", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, *path); err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	seedFile, err := seed.Load(file)
	if err != nil {
		return err
	}

	st, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Warn("closing storage", "err", err)
		}
	}()

	res, err := seed.Run(ctx, services.NewEventService(st.Events, cfg.RequestTimeout), seedFile, logger)
	if err != nil {
		return err
	}
	logger.Info("seeding finished", "created", res.Created, "skipped", res.Skipped)
	return nil
}
