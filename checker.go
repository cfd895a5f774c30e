package main

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/maxnilz/stockwatch/errors"
)

// userAgent mirrors a desktop Chrome so the storefront serves the regular
// product page markup instead of a bot challenge.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// scraperAPIEndpoint relays the request from ScraperAPI's own address pool
// and returns the page body untouched.
const scraperAPIEndpoint = "http://api.scraperapi.com/"

const requestTimeout = 30 * time.Second

// Fixed structural queries against the product page. The sold-out banner
// and the add-to-cart button are mutually exclusive; a page carrying
// neither means the layout changed under us.
const (
	titleSelector     = "span.B_NuCI"
	soldOutSelector   = "div._16FRp0"
	addToCartSelector = "button._2KpZ6l._2U9uOA"
)

type Availability struct {
	InStock     bool
	ProductName string
}

type Checker interface {
	Check(ctx context.Context) (Availability, error)
}

func NewChecker(cfg Config) Checker {
	client := resty.New().
		SetTimeout(requestTimeout).
		SetHeader("User-Agent", userAgent)
	return &pageChecker{
		client:        client,
		productURL:    cfg.ProductURL,
		scraperAPIKey: cfg.ScraperAPIKey,
		proxyEndpoint: scraperAPIEndpoint,
	}
}

type pageChecker struct {
	client        *resty.Client
	productURL    string
	scraperAPIKey string
	proxyEndpoint string
}

func (c *pageChecker) Check(ctx context.Context) (Availability, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return Availability{}, err
	}
	return extractAvailability(body)
}

func (c *pageChecker) fetch(ctx context.Context) ([]byte, error) {
	req := c.client.R().SetContext(ctx)
	target := c.productURL
	if c.scraperAPIKey != "" {
		req.SetQueryParams(map[string]string{
			"api_key": c.scraperAPIKey,
			"url":     c.productURL,
		})
		target = c.proxyEndpoint
	}
	resp, err := req.Get(target)
	if err != nil {
		return nil, errors.Newf(errors.FetchFailed, err, "get %s failed", c.productURL)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, errors.Newf(errors.FetchFailed, nil, "unexpected response for %s: %s", c.productURL, resp.Status())
	}
	return resp.Body(), nil
}

func extractAvailability(body []byte) (Availability, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Availability{}, errors.Newf(errors.ParseFailed, err, "parse product page failed")
	}
	name := strings.TrimSpace(doc.Find(titleSelector).First().Text())
	if name == "" {
		name = "Product"
	}
	if doc.Find(soldOutSelector).Length() > 0 {
		return Availability{InStock: false, ProductName: name}, nil
	}
	if doc.Find(addToCartSelector).Length() > 0 {
		return Availability{InStock: true, ProductName: name}, nil
	}
	return Availability{}, errors.Newf(errors.ParseFailed, nil, "availability markers missing, page layout may have changed")
}
