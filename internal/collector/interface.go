package collector

import "context"

// Config holds provider configuration
type Config struct {
	BaseURL string
	Timeout string
	Extra   map[string]any
}

// RawQuote is the loosely typed quote shape returned by a provider.
// Nothing in it is trusted until it passes Validate.
type RawQuote struct {
	Symbol                     *string  `json:"symbol" validate:"required,min=1"`
	ShortName                  *string  `json:"shortName"`
	MarketState                *string  `json:"marketState"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice" validate:"omitempty,gte=0"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose" validate:"omitempty,gte=0"`
	RegularMarketOpen          *float64 `json:"regularMarketOpen" validate:"omitempty,gte=0"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh" validate:"omitempty,gte=0"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow" validate:"omitempty,gte=0"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume" validate:"omitempty,gte=0"`
}

// Provider defines the interface for upstream quote sources
type Provider interface {
	// Metadata
	Name() string

	// Lifecycle
	Init(cfg Config) error

	// FetchQuotes requests all symbols in a single batched call.
	// Symbols the provider does not know are simply absent from the result.
	FetchQuotes(ctx context.Context, symbols []string) ([]RawQuote, error)
}

// Find returns the first raw quote for symbol, or nil.
func Find(quotes []RawQuote, symbol string) *RawQuote {
	for i := range quotes {
		if quotes[i].Symbol != nil && *quotes[i].Symbol == symbol {
			return &quotes[i]
		}
	}
	return nil
}
