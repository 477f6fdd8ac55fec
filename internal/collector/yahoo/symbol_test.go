package yahoo

import "testing"

func TestValidateSymbol(t *testing.T) {
	valid := []string{"^VIX", "^GSPC", "SPY", "AAPL", "0700.HK", "600519.SS", "^VXV", "ES=F"}
	for _, s := range valid {
		if err := validateSymbol(s); err != nil {
			t.Errorf("validateSymbol(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "A B", "^^VIX", "AAPL;DROP", "ABCDEFGHIJKLMNOPQRSTUV"}
	for _, s := range invalid {
		if err := validateSymbol(s); err == nil {
			t.Errorf("validateSymbol(%q) expected error", s)
		}
	}
}
