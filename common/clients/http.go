package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger interface for HTTP client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Fetcher retrieves raw bytes from a URL. Implemented by FetchClient;
// tests substitute fakes.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// FetchClient wraps http.Client for outbound calls to image providers and
// image hosts. Every call is bounded by the configured timeout, redirects
// are followed, and TLS verification can be relaxed for non-production
// environments.
type FetchClient struct {
	client *http.Client
	logger Logger
}

// NewFetchClient creates a new fetch client wrapper
func NewFetchClient(timeout time.Duration, insecureTLS bool, logger Logger) *FetchClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &FetchClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Get executes a GET request and returns the response body.
// Non-2xx statuses and empty bodies are reported as errors so callers can
// treat them uniformly as a failed fetch.
func (c *FetchClient) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("fetch returned non-success status", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("fetch %s: empty body", url)
	}

	return body, nil
}
