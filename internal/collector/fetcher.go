package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"SignalSentinel/internal/model"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Fetcher retrieves daily bars for a symbol from one data provider.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// newHTTPClient builds a client that routes through proxyURL when set.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}
