package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maxnilz/stockwatch/errors"
	"github.com/stretchr/testify/require"
)

const inStockPage = `<html><body>
<h1><span class="B_NuCI">Acme Widget (Blue, 64 GB)</span></h1>
<button class="_2KpZ6l _2U9uOA _3v1-ww">ADD TO CART</button>
</body></html>`

const soldOutPage = `<html><body>
<h1><span class="B_NuCI">Acme Widget (Blue, 64 GB)</span></h1>
<div class="_16FRp0">Sold Out</div>
<button class="_2KpZ6l _2ObVJD">NOTIFY ME</button>
</body></html>`

const redesignedPage = `<html><body>
<h1>Acme Widget</h1>
<div class="availability-v2">In Stock</div>
</body></html>`

func TestCheckerInStock(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, inStockPage)
	}))
	defer srv.Close()

	c := NewChecker(Config{ProductURL: srv.URL})
	avail, err := c.Check(context.Background())
	require.NoError(t, err)
	require.True(t, avail.InStock)
	require.Equal(t, "Acme Widget (Blue, 64 GB)", avail.ProductName)
	require.Equal(t, userAgent, gotUA)
}

func TestCheckerSoldOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, soldOutPage)
	}))
	defer srv.Close()

	c := NewChecker(Config{ProductURL: srv.URL})
	avail, err := c.Check(context.Background())
	require.NoError(t, err)
	require.False(t, avail.InStock)
}

func TestCheckerLayoutChanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, redesignedPage)
	}))
	defer srv.Close()

	c := NewChecker(Config{ProductURL: srv.URL})
	_, err := c.Check(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.ParseFailed, errors.Code(err))
}

func TestCheckerNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewChecker(Config{ProductURL: srv.URL})
	_, err := c.Check(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.FetchFailed, errors.Code(err))
}

func TestCheckerConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewChecker(Config{ProductURL: srv.URL})
	_, err := c.Check(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.FetchFailed, errors.Code(err))
}

func TestCheckerProxyPassThrough(t *testing.T) {
	const productURL = "https://www.flipkart.com/acme-widget/p/itm123"
	var gotKey, gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotURL = r.URL.Query().Get("url")
		fmt.Fprint(w, inStockPage)
	}))
	defer srv.Close()

	c := NewChecker(Config{ProductURL: productURL, ScraperAPIKey: "sk-test"}).(*pageChecker)
	c.proxyEndpoint = srv.URL

	avail, err := c.Check(context.Background())
	require.NoError(t, err)
	require.True(t, avail.InStock)
	require.Equal(t, "sk-test", gotKey)
	require.Equal(t, productURL, gotURL)
}

func TestExtractAvailabilityNameFallback(t *testing.T) {
	page := `<html><body><button class="_2KpZ6l _2U9uOA">ADD TO CART</button></body></html>`
	avail, err := extractAvailability([]byte(page))
	require.NoError(t, err)
	require.True(t, avail.InStock)
	require.Equal(t, "Product", avail.ProductName)
}
