package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := DefaultLogger
	if cfg.Verbose {
		logger = VerboseLogger
	}

	checker := NewChecker(cfg)
	notifier, err := NewNotifier(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	watcher := NewWatcher(cfg, checker, notifier, logger)

	scheduler := NewScheduler(logger)
	if err = scheduler.Every(cfg.CheckInterval, watcher); err != nil {
		log.Fatal(err)
	}
	logger.Info("watching product", "url", cfg.ProductURL, "interval", cfg.CheckInterval.String())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// check once right away, then on the interval
		if err := watcher.Run(ctx); err != nil {
			logger.Error(err, "job failed", "job", watcher.Name())
		}
		scheduler.Run(ctx)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan bool, 1)
	go func() {
		<-sigs
		cancel()
		scheduler.Stop()
		done <- true
	}()

	<-done
}
