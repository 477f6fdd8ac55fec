package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/newthinker/fearwatch/internal/collector"
	"github.com/newthinker/fearwatch/internal/core"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com/v7/finance/quote"
	defaultCookieURL = "https://fc.yahoo.com"
	defaultCrumbURL  = "https://query1.finance.yahoo.com/v1/test/getcrumb"
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; fearwatch/1.0)"
)

// validSymbol matches index and stock symbols like ^VIX, ^GSPC, AAPL, 0700.HK
var validSymbol = regexp.MustCompile(`^\^?[A-Za-z0-9=\-]{1,12}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=yahoo.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Yahoo provider
type Option func(*Yahoo)

// WithBaseURL overrides the quote endpoint.
func WithBaseURL(baseURL string) Option {
	return func(y *Yahoo) {
		y.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c HTTPClient) Option {
	return func(y *Yahoo) {
		y.client = c
	}
}

// WithTimeout bounds each batched request.
func WithTimeout(d time.Duration) Option {
	return func(y *Yahoo) {
		y.timeout = d
	}
}

// WithCrumbURLs sets where the session cookie and the crumb are obtained.
// An empty crumbURL disables the handshake.
func WithCrumbURLs(cookieURL, crumbURL string) Option {
	return func(y *Yahoo) {
		y.cookieURL = cookieURL
		y.crumbURL = crumbURL
	}
}

// WithoutCrumb sends quote requests without the cookie and crumb handshake,
// for endpoints that do not require it.
func WithoutCrumb() Option {
	return WithCrumbURLs("", "")
}

// Yahoo implements the Yahoo Finance quote provider
type Yahoo struct {
	client    HTTPClient
	baseURL   string
	cookieURL string
	crumbURL  string
	timeout   time.Duration

	// mu guards the session: the cookie jar contents and the cached crumb.
	mu    sync.Mutex
	jar   *cookiejar.Jar
	crumb string
}

// New creates a new Yahoo provider
func New(opts ...Option) *Yahoo {
	// Only fails on a broken public suffix list, and none is passed.
	jar, _ := cookiejar.New(nil)
	y := &Yahoo{
		client:    &http.Client{},
		baseURL:   defaultBaseURL,
		cookieURL: defaultCookieURL,
		crumbURL:  defaultCrumbURL,
		timeout:   defaultTimeout,
		jar:       jar,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

func (y *Yahoo) Init(cfg collector.Config) error {
	if cfg.BaseURL != "" {
		y.baseURL = cfg.BaseURL
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		y.timeout = d
	}
	if crumb, ok := cfg.Extra["crumb"].(bool); ok && !crumb {
		y.cookieURL, y.crumbURL = "", ""
	}
	return nil
}

// FetchQuotes fetches quotes for all symbols in one request
func (y *Yahoo) FetchQuotes(ctx context.Context, symbols []string) ([]collector.RawQuote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested")
	}
	for _, s := range symbols {
		if err := validateSymbol(s); err != nil {
			return nil, err
		}
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	symbolList := strings.Join(symbols, ",")
	status, body, err := y.fetchQuotes(ctx, symbolList, false)
	if err == nil && status == http.StatusUnauthorized && y.crumbURL != "" {
		// The crumb expired with its session; renew both once.
		status, body, err = y.fetchQuotes(ctx, symbolList, true)
	}
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("not found: %s", errorDescription(body)))
	}
	if status != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("unexpected status: %d: %s", status, errorDescription(body)))
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, core.WrapError(core.ErrValidationFailed, fmt.Errorf("decoding response: %w", err))
	}
	if result.QuoteResponse == nil {
		return nil, core.WrapError(core.ErrValidationFailed, errors.New("missing quoteResponse"))
	}
	if e := result.QuoteResponse.Error; e != nil {
		if strings.EqualFold(e.Code, "Not Found") {
			return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("not found: %s", e.Description))
		}
		return nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("yahoo error: %s", e.Description))
	}

	return result.QuoteResponse.Result, nil
}

// fetchQuotes performs one quote request, running the crumb handshake first
// when the session has none or renew is set.
func (y *Yahoo) fetchQuotes(ctx context.Context, symbolList string, renew bool) (int, []byte, error) {
	u := fmt.Sprintf("%s?symbols=%s", y.baseURL, url.QueryEscape(symbolList))
	if y.crumbURL != "" {
		crumb, err := y.sessionCrumb(ctx, renew)
		if err != nil {
			return 0, nil, err
		}
		u += "&crumb=" + url.QueryEscape(crumb)
	}
	return y.get(ctx, u)
}

// sessionCrumb returns the cached crumb, or obtains a session cookie and a
// fresh crumb when there is none or renew is set.
func (y *Yahoo) sessionCrumb(ctx context.Context, renew bool) (string, error) {
	y.mu.Lock()
	defer y.mu.Unlock()

	if y.crumb != "" && !renew {
		return y.crumb, nil
	}
	y.crumb = ""

	if y.cookieURL != "" {
		// The cookie endpoint answers with an error status; only Set-Cookie matters.
		if _, _, err := y.get(ctx, y.cookieURL); err != nil {
			return "", err
		}
	}

	status, body, err := y.get(ctx, y.crumbURL)
	if err != nil {
		return "", err
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, " <{") {
		return "", core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("obtaining crumb: status %d: %s", status, errorDescription(body)))
	}
	y.crumb = crumb
	return crumb, nil
}

// get issues a GET carrying the session cookies and stores any cookies the
// response sets.
func (y *Yahoo) get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, core.WrapError(core.ErrProviderFailed, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for _, c := range y.jar.Cookies(req.URL) {
		req.AddCookie(c)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return 0, nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if cookies := resp.Cookies(); len(cookies) > 0 {
		y.jar.SetCookies(req.URL, cookies)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, classify(ctx, fmt.Errorf("reading body: %w", err))
	}
	return resp.StatusCode, body, nil
}

// classify maps transport errors to the provider error taxonomy
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return core.WrapError(core.ErrProviderTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.WrapError(core.ErrProviderTimeout, err)
	}
	return core.WrapError(core.ErrProviderFailed, err)
}

// errorDescription extracts a message from a Yahoo error body, if there is one
func errorDescription(body []byte) string {
	var fe financeError
	if err := json.Unmarshal(body, &fe); err == nil && fe.Finance.Error != nil {
		return fe.Finance.Error.Description
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return strings.TrimSpace(string(body))
}

// Yahoo API response types
type quoteResponse struct {
	QuoteResponse *struct {
		Result []collector.RawQuote `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteResponse"`
}

type financeError struct {
	Finance struct {
		Error *apiError `json:"error"`
	} `json:"finance"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
