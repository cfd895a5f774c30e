package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/maxnilz/stockwatch/errors"
)

// Watcher runs one poll cycle per scheduler tick and keeps the single
// piece of state: whether the product was in stock on the last
// successful read. The state starts out false and is never persisted.
type Watcher struct {
	checker  Checker
	notifier Notifier
	logger   Logger

	productURL string
	interval   string

	inStock bool
}

func NewWatcher(cfg Config, checker Checker, notifier Notifier, logger Logger) *Watcher {
	return &Watcher{
		checker:    checker,
		notifier:   notifier,
		logger:     logger,
		productURL: cfg.ProductURL,
		interval:   cfg.CheckInterval.String(),
	}
}

func (w *Watcher) Name() string {
	return "stock watcher"
}

// Run performs one fetch-parse-compare-notify cycle. Fetch and parse
// failures are recoverable: they are logged and leave the recorded
// state untouched, the scheduler interval is the only retry backoff.
func (w *Watcher) Run(ctx context.Context) error {
	avail, err := w.checker.Check(ctx)
	if err != nil {
		if errors.Code(err) == errors.ParseFailed {
			w.logger.Error(err, "availability unknown, state unchanged", "in_stock", w.inStock)
		} else {
			w.logger.Error(err, "check failed, state unchanged", "in_stock", w.inStock)
		}
		return nil
	}

	if !avail.InStock {
		if w.inStock {
			w.logger.Info("product went out of stock", "product", avail.ProductName)
		} else {
			w.logger.Info("product not in stock", "product", avail.ProductName, "next_check_in", w.interval)
		}
		w.inStock = false
		return nil
	}

	if w.inStock {
		w.logger.Debug("product still in stock, alert already sent", "product", avail.ProductName)
		return nil
	}

	alert := Alert{
		Id:          uuid.NewString(),
		ProductName: avail.ProductName,
		ProductURL:  w.productURL,
	}
	if err = w.notifier.Notify(ctx, alert); err != nil {
		// The state still flips so a sustained in-stock page does not
		// re-fire the alert on every cycle.
		w.logger.Error(err, "send notification failed", "alert", alert.Id)
	}
	w.inStock = true
	w.logger.Info("product is in stock", "product", avail.ProductName)
	return nil
}
