package ucs

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// maxResponseSize bounds the body read from the endpoint.
const maxResponseSize = 32 << 20

// transport posts XML API documents to a single endpoint.
type transport struct {
	url    string
	client *retryablehttp.Client
}

func newTransport(config *ConnectionConfig) *transport {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = config.Timeout
	if t, ok := httpClient.Transport.(*http.Transport); ok {
		t.TLSClientConfig = config.tlsConfig()
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = httpClient
	client.Logger = nil
	client.RetryMax = config.DialRetries
	client.RetryWaitMin = config.RetryWaitMin
	client.RetryWaitMax = config.RetryWaitMax
	client.CheckRetry = dialRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &transport{
		url:    config.URL(),
		client: client,
	}
}

// dialRetryPolicy retries only when the connection could not be established,
// so that a request is never delivered twice.
func dialRetryPolicy(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil {
		return false, nil
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true, nil
	}
	return false, nil
}

// post sends one XML API method and decodes its reply into out.
func (t *transport) post(ctx context.Context, method string, in, out any) error {
	payload, err := xml.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, t.url, payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/xml")

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	LogPerformance(ctx, method, time.Since(start), map[string]any{
		"status":     resp.StatusCode,
		"body_bytes": len(body),
	})
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected HTTP status %s", method, resp.Status)
	}

	return decodeResponse(method, bytes.TrimSpace(body), out)
}

// close releases idle connections.
func (t *transport) close() {
	t.client.HTTPClient.CloseIdleConnections()
}
