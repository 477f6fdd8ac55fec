package collector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/newthinker/fearwatch/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a raw provider quote against the quote schema and
// converts it into a core.Quote.
func Validate(raw *RawQuote) (core.Quote, error) {
	if raw == nil {
		return core.Quote{}, core.WrapError(core.ErrValidationFailed, errors.New("quote is nil"))
	}

	if err := validate.Struct(raw); err != nil {
		return core.Quote{}, core.WrapError(core.ErrValidationFailed, describe(err))
	}

	for name, v := range map[string]*float64{
		"regularMarketPrice":         raw.RegularMarketPrice,
		"regularMarketChange":        raw.RegularMarketChange,
		"regularMarketChangePercent": raw.RegularMarketChangePercent,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return core.Quote{}, core.WrapError(core.ErrValidationFailed,
				fmt.Errorf("%s is not a finite number", name))
		}
	}

	name := "N/A"
	if raw.ShortName != nil && *raw.ShortName != "" {
		name = *raw.ShortName
	}

	state := core.MarketUnknown
	if raw.MarketState != nil {
		state = core.ParseMarketState(*raw.MarketState)
	}

	return core.Quote{
		Symbol:        *raw.Symbol,
		Name:          name,
		MarketState:   state,
		Price:         raw.RegularMarketPrice,
		PreviousClose: raw.RegularMarketPreviousClose,
		Open:          raw.RegularMarketOpen,
		DayHigh:       raw.RegularMarketDayHigh,
		DayLow:        raw.RegularMarketDayLow,
		Change:        raw.RegularMarketChange,
		ChangePercent: raw.RegularMarketChangePercent,
		Volume:        raw.RegularMarketVolume,
	}, nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
