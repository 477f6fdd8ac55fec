// Package static serves fixed quotes without touching the network.
// It backs offline demos and local development of the dashboard.
package static

import (
	"context"
	"sync"

	"github.com/newthinker/fearwatch/internal/collector"
)

// Static implements collector.Provider over an in-memory quote table
type Static struct {
	mu     sync.RWMutex
	quotes map[string]collector.RawQuote
}

// New creates a static provider seeded with demo values
func New() *Static {
	s := &Static{quotes: make(map[string]collector.RawQuote)}
	s.Set("^VIX", "CBOE Volatility Index", "CLOSED", 49.83, 46.24, 45.10)
	s.Set("^GSPC", "S&P 500", "CLOSED", 4117.50, 4182.34, 4170.12)
	s.Set("SPY", "SPDR S&P 500 ETF Trust", "CLOSED", 411.75, 417.90, 416.02)
	return s
}

func (s *Static) Name() string {
	return "static"
}

func (s *Static) Init(cfg collector.Config) error {
	return nil
}

// Set stores or replaces a quote
func (s *Static) Set(symbol, name, state string, price, prevClose, open float64) {
	change := price - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = collector.RawQuote{
		Symbol:                     &symbol,
		ShortName:                  &name,
		MarketState:                &state,
		RegularMarketPrice:         &price,
		RegularMarketPreviousClose: &prevClose,
		RegularMarketOpen:          &open,
		RegularMarketChange:        &change,
		RegularMarketChangePercent: &changePct,
	}
}

// Delete removes a symbol so it is absent from later fetches
func (s *Static) Delete(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, symbol)
}

// FetchQuotes returns the stored quotes for the requested symbols.
// Unknown symbols are omitted, as an upstream provider would.
func (s *Static) FetchQuotes(ctx context.Context, symbols []string) ([]collector.RawQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]collector.RawQuote, 0, len(symbols))
	for _, sym := range symbols {
		if q, ok := s.quotes[sym]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}
