// Package signal derives the buy-the-dip decision from a VIX quote.
package signal

import (
	"strconv"
	"strings"

	"github.com/newthinker/fearwatch/internal/core"
	"github.com/newthinker/fearwatch/internal/format"
)

// DefaultThreshold is the VIX level above which fear counts as extreme
const DefaultThreshold = 30.0

// Evaluate compares the VIX price against threshold. The buy signal is
// price > threshold; the "lower than open" note only affects the reason text.
func Evaluate(vix core.Quote, threshold float64, f *format.Formatter) (core.SignalDecision, error) {
	if !vix.HasPrice() {
		return core.SignalDecision{}, core.ErrMissingVIX
	}
	if f == nil {
		f = format.Default()
	}

	price := *vix.Price
	highFear := price > threshold
	t := strconv.FormatFloat(threshold, 'f', -1, 64)

	var b strings.Builder
	b.WriteString("VIX (" + f.Number(vix.Price) + ") ")
	if highFear {
		b.WriteString("is above the high fear threshold (" + t + "). Extreme fear can indicate potential market bottoms.")
		if Easing(vix) {
			b.WriteString(" VIX is also lower than its open (" + f.Number(vix.Open) +
				"), suggesting fear *might* be easing slightly today.")
		}
	} else {
		b.WriteString("is below the high fear threshold (" + t + "). Market fear is not considered extreme based on this level.")
	}

	return core.SignalDecision{
		IsBuySignal: highFear,
		Threshold:   threshold,
		Reason:      b.String(),
	}, nil
}

// Easing reports whether VIX trades below its opening price.
// A missing or zero open never counts as easing.
func Easing(vix core.Quote) bool {
	if vix.Price == nil || vix.Open == nil || *vix.Open == 0 {
		return false
	}
	return *vix.Price < *vix.Open
}
