package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/maxnilz/stockwatch/errors"
)

const telegramAPIBase = "https://api.telegram.org"

// Alert describes a single stock notification. The id only exists for
// log correlation, nothing is persisted.
type Alert struct {
	Id          string
	ProductName string
	ProductURL  string
}

func (a Alert) Text() string {
	return fmt.Sprintf("🚨 STOCK ALERT! 🚨\n\n%s is now in stock!\n\nBuy it here: %s", a.ProductName, a.ProductURL)
}

type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

func NewNotifier(cfg Config, logger Logger) (Notifier, error) {
	if cfg.DryRun {
		return &consoleNotifier{Logger: logger}, nil
	}
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		return nil, errors.Newf(errors.InvalidConfig, nil, "invalid telegram config")
	}
	client := resty.New().
		SetBaseURL(telegramAPIBase).
		SetTimeout(10 * time.Second)
	return &telegramNotifier{
		client: client,
		token:  cfg.TelegramToken,
		chatID: cfg.TelegramChatID,
		Logger: logger,
	}, nil
}

type telegramNotifier struct {
	client *resty.Client
	token  string
	chatID string
	Logger
}

type sendMessageResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *telegramNotifier) Notify(ctx context.Context, alert Alert) error {
	var result sendMessageResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": t.chatID,
			"text":    alert.Text(),
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.token))
	if err != nil {
		return errors.Newf(errors.NotifyFailed, err, "send telegram message failed")
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 || !result.Ok {
		return errors.Newf(errors.NotifyFailed, nil, "telegram rejected message: %s %s", resp.Status(), result.Description)
	}
	t.Logger.Info("notification sent", "alert", alert.Id, "product", alert.ProductName)
	return nil
}

// consoleNotifier prints alerts instead of delivering them, for dry runs.
type consoleNotifier struct {
	Logger
}

func (c *consoleNotifier) Notify(_ context.Context, alert Alert) error {
	c.Logger.Info("stock alert", "alert", alert.Id, "product", alert.ProductName, "url", alert.ProductURL)
	return nil
}
