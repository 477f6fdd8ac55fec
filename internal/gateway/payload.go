package gateway

import (
	"github.com/newthinker/fearwatch/internal/core"
	"github.com/newthinker/fearwatch/internal/format"
)

// QuoteView is the wire shape of one snapshot: raw numbers next to their
// pre-formatted strings.
type QuoteView struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	MarketState   core.MarketState `json:"marketState"`
	CurrentPrice  *float64         `json:"currentPrice"`
	PreviousClose *float64         `json:"previousClose"`
	OpenPrice     *float64         `json:"openPrice"`
	DayHigh       *float64         `json:"dayHigh"`
	DayLow        *float64         `json:"dayLow"`
	Change        *float64         `json:"change"`
	ChangePercent *float64         `json:"changePercent"`
	Volume        *int64           `json:"volume"`

	CurrentPriceFormatted  string `json:"currentPriceFormatted"`
	PreviousCloseFormatted string `json:"previousCloseFormatted"`
	OpenPriceFormatted     string `json:"openPriceFormatted"`
	DayHighFormatted       string `json:"dayHighFormatted"`
	DayLowFormatted        string `json:"dayLowFormatted"`
	ChangeFormatted        string `json:"changeFormatted"`
	ChangePercentFormatted string `json:"changePercentFormatted"`
	VolumeFormatted        string `json:"volumeFormatted"`
}

// Payload is the successful gateway response
type Payload struct {
	Timestamp string              `json:"timestamp"`
	VIX       *QuoteView          `json:"vix"`
	Market    *QuoteView          `json:"market"`
	Signal    core.SignalDecision `json:"signal"`
}

// ErrorBody is the failed gateway response
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewQuoteView reshapes a validated quote for the wire
func NewQuoteView(q core.Quote, f *format.Formatter) *QuoteView {
	if f == nil {
		f = format.Default()
	}
	return &QuoteView{
		Symbol:        q.Symbol,
		Name:          q.Name,
		MarketState:   q.MarketState,
		CurrentPrice:  q.Price,
		PreviousClose: q.PreviousClose,
		OpenPrice:     q.Open,
		DayHigh:       q.DayHigh,
		DayLow:        q.DayLow,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Volume:        q.Volume,

		CurrentPriceFormatted:  f.Number(q.Price),
		PreviousCloseFormatted: f.Number(q.PreviousClose),
		OpenPriceFormatted:     f.Number(q.Open),
		DayHighFormatted:       f.Number(q.DayHigh),
		DayLowFormatted:        f.Number(q.DayLow),
		ChangeFormatted:        f.Number(q.Change),
		ChangePercentFormatted: f.Number(q.ChangePercent),
		VolumeFormatted:        f.Volume(q.Volume),
	}
}
