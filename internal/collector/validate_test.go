package collector

import (
	"errors"
	"math"
	"testing"

	"github.com/newthinker/fearwatch/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidate_FullQuote(t *testing.T) {
	raw := &RawQuote{
		Symbol:                     ptr("^VIX"),
		ShortName:                  ptr("CBOE Volatility Index"),
		MarketState:                ptr("REGULAR"),
		RegularMarketPrice:         ptr(35.5),
		RegularMarketPreviousClose: ptr(33.1),
		RegularMarketOpen:          ptr(36.0),
		RegularMarketDayHigh:       ptr(37.2),
		RegularMarketDayLow:        ptr(34.9),
		RegularMarketChange:        ptr(2.4),
		RegularMarketChangePercent: ptr(7.25),
	}

	q, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "^VIX", q.Symbol)
	assert.Equal(t, "CBOE Volatility Index", q.Name)
	assert.Equal(t, core.MarketOpen, q.MarketState)
	assert.Equal(t, 35.5, *q.Price)
	assert.Equal(t, 36.0, *q.Open)
	assert.Nil(t, q.Volume)
}

func TestValidate_Defaults(t *testing.T) {
	q, err := Validate(&RawQuote{Symbol: ptr("^GSPC")})
	require.NoError(t, err)
	assert.Equal(t, "N/A", q.Name)
	assert.Equal(t, core.MarketUnknown, q.MarketState)
	assert.False(t, q.HasPrice())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawQuote
	}{
		{"nil quote", nil},
		{"missing symbol", &RawQuote{RegularMarketPrice: ptr(10.0)}},
		{"empty symbol", &RawQuote{Symbol: ptr("")}},
		{"negative price", &RawQuote{Symbol: ptr("^VIX"), RegularMarketPrice: ptr(-1.0)}},
		{"negative volume", &RawQuote{Symbol: ptr("^GSPC"), RegularMarketVolume: ptr(int64(-5))}},
		{"nan change", &RawQuote{Symbol: ptr("^VIX"), RegularMarketChange: ptr(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrValidationFailed), "got %v", err)
		})
	}
}

func TestFind(t *testing.T) {
	quotes := []RawQuote{{Symbol: ptr("^GSPC")}, {}, {Symbol: ptr("^VIX")}}

	found := Find(quotes, "^VIX")
	require.NotNil(t, found)
	assert.Equal(t, "^VIX", *found.Symbol)
	assert.Nil(t, Find(quotes, "^VXV"))
}
