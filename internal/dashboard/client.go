package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/fearwatch/internal/core"
	"github.com/newthinker/fearwatch/internal/gateway"
)

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves one gateway payload.
type Fetcher interface {
	Fetch(ctx context.Context) (*gateway.Payload, error)
}

// Client calls the quote gateway over plain HTTP GET.
type Client struct {
	endpoint string
	http     HTTPClient
}

// NewClient creates a gateway client. A nil httpClient gets a client with timeout.
func NewClient(endpoint string, httpClient HTTPClient, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// Fetch GETs the endpoint. The body is read as text before JSON decoding so
// an unparseable body is reported separately from a network failure.
func (c *Client) Fetch(ctx context.Context) (*gateway.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrGatewayUnreachable, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.WrapError(core.ErrGatewayUnreachable, fmt.Errorf("reading body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb gateway.ErrorBody
		if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
			return nil, core.WrapError(core.ErrGatewayStatus, fmt.Errorf("%s (HTTP %d)", eb.Error, resp.StatusCode))
		}
		return nil, core.WrapError(core.ErrResponseParse,
			fmt.Errorf("HTTP %d with unreadable body: %s", resp.StatusCode, snippet(body)))
	}

	var payload gateway.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, core.WrapError(core.ErrResponseParse, fmt.Errorf("%w: %s", err, snippet(body)))
	}
	return &payload, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
