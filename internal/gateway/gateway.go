// Package gateway turns one batched provider call into a dashboard payload.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/fearwatch/internal/collector"
	"github.com/newthinker/fearwatch/internal/core"
	"github.com/newthinker/fearwatch/internal/format"
	"github.com/newthinker/fearwatch/internal/metrics"
	"github.com/newthinker/fearwatch/internal/signal"
	"go.uber.org/zap"
)

// Config holds the fixed symbol set and signal threshold
type Config struct {
	VIXSymbol    string
	MarketSymbol string
	Threshold    float64
}

// DefaultConfig returns the reference symbol set
func DefaultConfig() Config {
	return Config{
		VIXSymbol:    "^VIX",
		MarketSymbol: "^GSPC",
		Threshold:    signal.DefaultThreshold,
	}
}

// Service computes snapshots. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	cfg       Config
	provider  collector.Provider
	formatter *format.Formatter
	metrics   *metrics.Registry
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records gateway metrics into reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) {
		s.metrics = reg
	}
}

// WithFormatter overrides the default en-US formatter.
func WithFormatter(f *format.Formatter) Option {
	return func(s *Service) {
		s.formatter = f
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a gateway service
func New(cfg Config, provider collector.Provider, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cfg:       cfg,
		provider:  provider,
		formatter: format.Default(),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Symbols returns the symbols fetched per snapshot, VIX first
func (s *Service) Symbols() []string {
	return []string{s.cfg.VIXSymbol, s.cfg.MarketSymbol}
}

// Snapshot fetches both symbols in one provider call and computes the signal.
// A missing or priceless VIX quote fails the snapshot; a missing market quote
// only degrades it.
func (s *Service) Snapshot(ctx context.Context) (*Payload, error) {
	symbols := s.Symbols()
	s.logger.Info("initiating quote fetch",
		zap.String("provider", s.provider.Name()),
		zap.Strings("symbols", symbols),
	)

	start := time.Now()
	raw, err := s.provider.FetchQuotes(ctx, symbols)
	if s.metrics != nil {
		s.metrics.RecordProviderCall(s.provider.Name(), time.Since(start).Seconds())
	}
	if err != nil {
		s.record(outcome(err))
		s.logger.Error("fetching quotes failed", zap.Strings("symbols", symbols), zap.Error(err))
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}

	vixRaw := collector.Find(raw, s.cfg.VIXSymbol)
	marketRaw := collector.Find(raw, s.cfg.MarketSymbol)
	s.logger.Debug("quotes received",
		zap.Bool("vix_found", vixRaw != nil),
		zap.Bool("market_found", marketRaw != nil),
	)

	vix, err := s.validateVIX(vixRaw)
	if err != nil {
		s.record(outcome(err))
		s.logger.Error("no valid VIX data", zap.String("symbol", s.cfg.VIXSymbol), zap.Error(err))
		return nil, err
	}

	var market *QuoteView
	if marketRaw == nil {
		s.logger.Warn("market context missing, proceeding with VIX only",
			zap.String("symbol", s.cfg.MarketSymbol))
	} else if q, err := collector.Validate(marketRaw); err != nil {
		s.logger.Warn("market context failed validation, proceeding with VIX only",
			zap.String("symbol", s.cfg.MarketSymbol), zap.Error(err))
	} else {
		market = NewQuoteView(q, s.formatter)
	}

	decision, err := signal.Evaluate(vix, s.cfg.Threshold, s.formatter)
	if err != nil {
		s.record("missing_vix")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SetQuotePrice(vix.Symbol, *vix.Price)
		if market != nil && market.CurrentPrice != nil {
			s.metrics.SetQuotePrice(market.Symbol, *market.CurrentPrice)
		}
		if market == nil {
			s.metrics.MarketContextMissing()
		}
		s.metrics.SetBuySignal(decision.IsBuySignal)
	}
	s.record("ok")

	s.logger.Info("snapshot computed",
		zap.Float64("vix", *vix.Price),
		zap.Bool("buy_signal", decision.IsBuySignal),
		zap.Bool("market_context", market != nil),
	)

	return &Payload{
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		VIX:       NewQuoteView(vix, s.formatter),
		Market:    market,
		Signal:    decision,
	}, nil
}

func (s *Service) validateVIX(raw *collector.RawQuote) (core.Quote, error) {
	if raw == nil {
		return core.Quote{}, core.WrapError(core.ErrMissingVIX,
			fmt.Errorf("%s absent from provider response", s.cfg.VIXSymbol))
	}
	// A schema failure keeps its validation class.
	q, err := collector.Validate(raw)
	if err != nil {
		return core.Quote{}, err
	}
	if !q.HasPrice() {
		return core.Quote{}, core.WrapError(core.ErrMissingVIX,
			fmt.Errorf("%s has no current price", s.cfg.VIXSymbol))
	}
	return q, nil
}

func (s *Service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSnapshot(outcome)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, core.ErrMissingVIX):
		return "missing_vix"
	case errors.Is(err, core.ErrSymbolNotFound):
		return "not_found"
	case errors.Is(err, core.ErrValidationFailed):
		return "validation"
	case errors.Is(err, core.ErrProviderTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// StatusFor maps a Snapshot error onto an HTTP status and a client-facing body.
// Details always carries the underlying error text.
func (s *Service) StatusFor(err error) (int, ErrorBody) {
	symbols := strings.Join(s.Symbols(), ", ")
	body := ErrorBody{Details: details(err)}

	switch {
	case errors.Is(err, core.ErrMissingVIX):
		body.Error = fmt.Sprintf("Failed to retrieve valid data for VIX (%s)", s.cfg.VIXSymbol)
		return http.StatusInternalServerError, body
	case errors.Is(err, core.ErrSymbolNotFound):
		body.Error = fmt.Sprintf("One or more symbols (%s) not found or API endpoint changed.", symbols)
		return http.StatusNotFound, body
	case errors.Is(err, core.ErrValidationFailed):
		body.Error = fmt.Sprintf("Data validation failed for symbols (%s). Yahoo structure might have changed. Check server logs.", symbols)
		return http.StatusInternalServerError, body
	case errors.Is(err, core.ErrProviderTimeout), errors.Is(err, context.DeadlineExceeded):
		body.Error = "Request to Yahoo Finance timed out."
		return http.StatusGatewayTimeout, body
	default:
		body.Error = "Failed to fetch data from Yahoo Finance API."
		return http.StatusInternalServerError, body
	}
}

func details(err error) string {
	if err == nil {
		return "No specific error message available."
	}
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr.Details()
	}
	return err.Error()
}
