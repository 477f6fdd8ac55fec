package core

import "strings"

// MarketState represents the trading session a quote was taken in
type MarketState string

const (
	MarketOpen    MarketState = "open"
	MarketClosed  MarketState = "closed"
	MarketPre     MarketState = "pre"
	MarketPost    MarketState = "post"
	MarketUnknown MarketState = "unknown"
)

// ParseMarketState maps provider session labels (REGULAR, PREPRE, POSTPOST, ...)
// onto a MarketState. Unrecognized labels map to MarketUnknown.
func ParseMarketState(s string) MarketState {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REGULAR", "OPEN":
		return MarketOpen
	case "CLOSED":
		return MarketClosed
	case "PRE", "PREPRE":
		return MarketPre
	case "POST", "POSTPOST":
		return MarketPost
	default:
		return MarketUnknown
	}
}

// Quote is a point-in-time snapshot of one symbol.
// Numeric fields are nil when the provider omitted them.
type Quote struct {
	Symbol        string
	Name          string
	MarketState   MarketState
	Price         *float64
	PreviousClose *float64
	Open          *float64
	DayHigh       *float64
	DayLow        *float64
	Change        *float64
	ChangePercent *float64
	Volume        *int64
}

// HasPrice reports whether the quote carries a current price
func (q Quote) HasPrice() bool {
	return q.Price != nil
}

// SignalDecision is the buy-signal outcome derived from a VIX quote
type SignalDecision struct {
	IsBuySignal bool    `json:"isBuySignal"`
	Threshold   float64 `json:"threshold"`
	Reason      string  `json:"reason"`
}
