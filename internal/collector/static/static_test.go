package static

import (
	"context"
	"testing"

	"github.com/newthinker/fearwatch/internal/collector"
)

func TestStatic_ImplementsProvider(t *testing.T) {
	var _ collector.Provider = (*Static)(nil)
}

func TestStatic_FetchQuotes(t *testing.T) {
	s := New()

	quotes, err := s.FetchQuotes(context.Background(), []string{"^VIX", "^GSPC", "^NOPE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}

	vix := collector.Find(quotes, "^VIX")
	if vix == nil || *vix.RegularMarketPrice != 49.83 {
		t.Errorf("unexpected VIX quote: %+v", vix)
	}
}

func TestStatic_SetAndDelete(t *testing.T) {
	s := New()
	s.Set("^VIX", "VIX", "REGULAR", 18.2, 19.0, 18.9)

	quotes, _ := s.FetchQuotes(context.Background(), []string{"^VIX"})
	if *quotes[0].RegularMarketPrice != 18.2 {
		t.Errorf("expected 18.2, got %v", *quotes[0].RegularMarketPrice)
	}

	s.Delete("^GSPC")
	quotes, _ = s.FetchQuotes(context.Background(), []string{"^GSPC"})
	if len(quotes) != 0 {
		t.Errorf("expected deleted symbol to be absent, got %d quotes", len(quotes))
	}
}

func TestStatic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().FetchQuotes(ctx, []string{"^VIX"}); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestStatic_SeededVIXDayMove(t *testing.T) {
	quotes, err := New().FetchQuotes(context.Background(), []string{"^VIX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vix := quotes[0]

	if *vix.RegularMarketPreviousClose != 46.24 {
		t.Errorf("expected previous close 46.24, got %v", *vix.RegularMarketPreviousClose)
	}
	if pct := *vix.RegularMarketChangePercent; pct <= 0 || pct >= 10 {
		t.Errorf("expected a single-day VIX move under 10%%, got %.2f%%", pct)
	}
}
