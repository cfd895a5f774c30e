package main

import (
	"net/url"
	"os"
	"time"

	"github.com/maxnilz/stockwatch/errors"
	"github.com/spf13/viper"
)

const defaultCheckIntervalSeconds = 60

// Config is loaded once at startup from the process environment and is
// immutable afterwards.
type Config struct {
	// TelegramToken is the bot credential used to call the Telegram API.
	TelegramToken string
	// TelegramChatID identifies the chat the stock alert is sent to.
	TelegramChatID string
	// ProductURL is the product page being watched.
	ProductURL string
	// CheckInterval is the delay between two poll cycles.
	CheckInterval time.Duration
	// ScraperAPIKey, when set, routes the page fetch through the
	// ScraperAPI relay instead of requesting the page directly.
	ScraperAPIKey string
	// DryRun sends alerts to the console instead of Telegram.
	DryRun bool
	// Verbose enables debug logging.
	Verbose bool
}

// LoadConfig reads the environment, honouring an optional .env file in
// the working directory. Process environment wins over the file.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Newf(errors.InvalidConfig, err, "read .env failed")
	}
	v.AutomaticEnv()
	v.SetDefault("CHECK_INTERVAL", defaultCheckIntervalSeconds)

	cfg := Config{
		TelegramToken:  v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: v.GetString("TELEGRAM_CHAT_ID"),
		ProductURL:     v.GetString("PRODUCT_URL"),
		CheckInterval:  time.Duration(v.GetInt("CHECK_INTERVAL")) * time.Second,
		ScraperAPIKey:  v.GetString("SCRAPERAPI_KEY"),
		DryRun:         v.GetBool("DRY_RUN"),
		Verbose:        v.GetBool("VERBOSE"),
	}
	if cfg.TelegramToken == "" {
		return Config{}, errors.Newf(errors.InvalidConfig, nil, "TELEGRAM_BOT_TOKEN is missing")
	}
	if cfg.TelegramChatID == "" {
		return Config{}, errors.Newf(errors.InvalidConfig, nil, "TELEGRAM_CHAT_ID is missing")
	}
	if cfg.ProductURL == "" {
		return Config{}, errors.Newf(errors.InvalidConfig, nil, "PRODUCT_URL is missing")
	}
	u, err := url.Parse(cfg.ProductURL)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" {
		return Config{}, errors.Newf(errors.InvalidConfig, err, "invalid PRODUCT_URL: %s", cfg.ProductURL)
	}
	if cfg.CheckInterval < time.Second {
		return Config{}, errors.Newf(errors.InvalidConfig, nil, "CHECK_INTERVAL must be at least 1 second")
	}
	return cfg, nil
}
