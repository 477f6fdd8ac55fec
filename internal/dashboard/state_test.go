package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/newthinker/fearwatch/internal/core"
	"github.com/newthinker/fearwatch/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testPayload(vix float64) *gateway.Payload {
	return &gateway.Payload{
		Timestamp: "2024-03-01T15:04:05.000Z",
		VIX: &gateway.QuoteView{
			Symbol:       "^VIX",
			Name:         "CBOE Volatility Index",
			MarketState:  core.MarketOpen,
			CurrentPrice: ptr(vix),
			OpenPrice:    ptr(34.0),
		},
		Market: &gateway.QuoteView{
			Symbol:       "^GSPC",
			Name:         "S&P 500",
			MarketState:  core.MarketOpen,
			CurrentPrice: ptr(4117.5),
			Volume:       ptr(int64(2345678901)),
		},
		Signal: core.SignalDecision{IsBuySignal: vix > 30, Threshold: 30, Reason: "test reason"},
	}
}

func TestInitial(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	s := Initial(now)

	assert.True(t, s.Loading)
	assert.False(t, s.HasData())
	assert.Empty(t, s.Err)
	assert.Nil(t, s.Signal)
	assert.Equal(t, now, s.Now)
	assert.True(t, s.LastUpdated.IsZero())
}

func TestReduce_FetchSucceeded(t *testing.T) {
	at := time.Date(2024, 3, 1, 15, 2, 0, 0, time.UTC)
	s := Reduce(Initial(at), LoadingStarted{})
	s.Err = "previous failure"

	s = Reduce(s, FetchSucceeded{Payload: testPayload(35.5), At: at})

	assert.False(t, s.Loading)
	assert.Empty(t, s.Err)
	require.True(t, s.HasData())
	assert.Equal(t, 35.5, *s.VIX.CurrentPrice)
	require.NotNil(t, s.Market)
	require.NotNil(t, s.Signal)
	assert.True(t, s.Signal.IsBuySignal)
	assert.Equal(t, at, s.LastUpdated)
}

func TestReduce_FetchFailedKeepsData(t *testing.T) {
	at := time.Date(2024, 3, 1, 15, 2, 0, 0, time.UTC)
	s := Reduce(Initial(at), FetchSucceeded{Payload: testPayload(18.2), At: at})
	s = Reduce(s, LoadingStarted{})

	s = Reduce(s, FetchFailed{Err: core.WrapError(core.ErrGatewayUnreachable, errors.New("connection refused"))})

	assert.False(t, s.Loading)
	assert.Equal(t, "gateway unreachable: connection refused", s.Err)
	require.True(t, s.HasData())
	assert.Equal(t, 18.2, *s.VIX.CurrentPrice)
	assert.Equal(t, at, s.LastUpdated)
	require.NotNil(t, s.Signal)
	assert.False(t, s.Signal.IsBuySignal)
}

func TestReduce_PayloadWithoutVIXIsFailure(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		payload *gateway.Payload
	}{
		{"nil payload", nil},
		{"no vix", &gateway.Payload{Market: testPayload(20).Market}},
		{"vix without price", &gateway.Payload{VIX: &gateway.QuoteView{Symbol: "^VIX"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(Initial(now), FetchSucceeded{Payload: tt.payload, At: now})

			assert.False(t, s.HasData())
			assert.Nil(t, s.Signal)
			assert.False(t, s.Loading)
			assert.Contains(t, s.Err, "failed to parse gateway response")
		})
	}
}

func TestReduce_ClockTickedOnlyMovesClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 15, 2, 0, 0, time.UTC)
	before := Reduce(Initial(at), FetchSucceeded{Payload: testPayload(22), At: at})

	later := at.Add(5 * time.Second)
	after := Reduce(before, ClockTicked{Now: later})

	assert.Equal(t, later, after.Now)
	before.Now = later
	assert.Equal(t, before, after)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := Initial(time.Now())
	_ = Reduce(s, FetchFailed{Err: errors.New("boom")})

	assert.True(t, s.Loading)
	assert.Empty(t, s.Err)
}

func TestReduce_SignalOnlyWithVIX(t *testing.T) {
	now := time.Now()
	events := []Event{
		LoadingStarted{},
		FetchFailed{Err: errors.New("x")},
		FetchSucceeded{Payload: &gateway.Payload{}, At: now},
		ClockTicked{Now: now},
		FetchSucceeded{Payload: testPayload(31), At: now},
		FetchFailed{Err: errors.New("y")},
		LoadingStarted{},
	}

	s := Initial(now)
	for _, ev := range events {
		s = Reduce(s, ev)
		if s.Signal != nil {
			assert.NotNil(t, s.VIX)
		}
	}
	assert.True(t, s.Loading)
	assert.True(t, s.HasData())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "unknown error", ErrorMessage(nil))
	assert.Equal(t, "plain", ErrorMessage(errors.New("plain")))
	assert.Equal(t, "gateway returned an error", ErrorMessage(core.ErrGatewayStatus))
	assert.Equal(t, "gateway returned an error: Symbol not found (HTTP 404)",
		ErrorMessage(core.WrapError(core.ErrGatewayStatus, errors.New("Symbol not found (HTTP 404)"))))
}
