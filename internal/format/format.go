// Package format renders quote numbers for display.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NA is shown for any value that is absent or not a number.
const NA = "N/A"

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en-US"

// Formatter renders numbers with locale-aware digit grouping
type Formatter struct {
	printer *message.Printer
	tag     language.Tag
}

// New creates a Formatter for a BCP 47 locale such as "en-US" or "de-DE".
func New(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), tag: tag}, nil
}

// Default returns an en-US formatter
func Default() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.AmericanEnglish), tag: language.AmericanEnglish}
}

// Locale returns the formatter's locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Number renders v with exactly two fractional digits.
func (f *Formatter) Number(v *float64) string {
	if v == nil {
		return NA
	}
	return f.float(*v)
}

// Volume renders v as a grouped integer.
func (f *Formatter) Volume(v *int64) string {
	if v == nil {
		return NA
	}
	return f.printer.Sprintf("%d", *v)
}

// Value renders any input: numeric kinds get two fractional digits,
// everything else is N/A.
func (f *Formatter) Value(v any) string {
	switch n := v.(type) {
	case float64:
		return f.float(n)
	case *float64:
		return f.Number(n)
	case float32:
		return f.float(float64(n))
	case int:
		return f.float(float64(n))
	case int32:
		return f.float(float64(n))
	case int64:
		return f.float(float64(n))
	case uint:
		return f.float(float64(n))
	case uint32:
		return f.float(float64(n))
	case uint64:
		return f.float(float64(n))
	default:
		return NA
	}
}

func (f *Formatter) float(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return f.printer.Sprintf("%.2f", v)
}
