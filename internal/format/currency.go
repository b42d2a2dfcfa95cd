// Package format renders simulation numbers for display. It is configured
// explicitly per call and holds no state; the simulation never calls it.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale         = "fr-FR"
	DefaultCurrency       = "EUR"
	DefaultFractionDigits = 0
)

// Options selects how a number is rendered.
type Options struct {
	Locale         string `json:"locale" yaml:"locale"`
	Currency       string `json:"currency" yaml:"currency"`
	FractionDigits int    `json:"fraction_digits" yaml:"fraction_digits"`
}

// DefaultOptions renders whole euros with French grouping.
func DefaultOptions() Options {
	return Options{
		Locale:         DefaultLocale,
		Currency:       DefaultCurrency,
		FractionDigits: DefaultFractionDigits,
	}
}

// Validate checks that the locale and currency are known.
func (o Options) Validate() error {
	if _, err := language.Parse(o.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", o.Locale, err)
	}
	if _, err := currency.ParseISO(o.Currency); err != nil {
		return fmt.Errorf("invalid currency %q: %w", o.Currency, err)
	}
	if o.FractionDigits < 0 || o.FractionDigits > 6 {
		return fmt.Errorf("fraction_digits must be in [0, 6], got %d", o.FractionDigits)
	}
	return nil
}

// Languages that place the currency symbol after the amount.
var symbolAfter = map[string]bool{
	"fr": true, "de": true, "es": true, "it": true, "pt": true,
	"nl": true, "pl": true, "sv": true, "fi": true, "cs": true,
}

// Currency formats value as an amount of currencyCode for locale, rounded to
// fractionDigits. Non-finite values are rendered as "NaN", "+Inf" or "-Inf".
func Currency(value float64, locale, currencyCode string, fractionDigits int) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return "", fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	if s, ok := nonFinite(value); ok {
		return s, nil
	}

	p := message.NewPrinter(tag)
	amount := p.Sprint(decimalNumber(math.Abs(value), fractionDigits))
	sym := strings.TrimSpace(p.Sprint(currency.Symbol(unit)))

	sign := ""
	if roundTo(value, fractionDigits) < 0 {
		sign = "-"
	}
	base, _ := tag.Base()
	if symbolAfter[base.String()] {
		return sign + amount + " " + sym, nil
	}
	return sign + sym + amount, nil
}

// Number formats value with the locale's grouping, rounded to fractionDigits.
func Number(value float64, locale string, fractionDigits int) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", locale, err)
	}
	if s, ok := nonFinite(value); ok {
		return s, nil
	}
	p := message.NewPrinter(tag)
	return p.Sprint(decimalNumber(value, fractionDigits)), nil
}

// Apply formats value as currency using o.
func (o Options) Apply(value float64) (string, error) {
	return Currency(value, o.Locale, o.Currency, o.FractionDigits)
}

func decimalNumber(value float64, digits int) number.Formatter {
	return number.Decimal(roundTo(value, digits),
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	)
}

// roundTo rounds half away from zero in decimal, not binary, arithmetic.
func roundTo(value float64, digits int) float64 {
	return decimal.NewFromFloat(value).Round(int32(digits)).InexactFloat64()
}

func nonFinite(value float64) (string, bool) {
	switch {
	case math.IsNaN(value):
		return "NaN", true
	case math.IsInf(value, 1):
		return "+Inf", true
	case math.IsInf(value, -1):
		return "-Inf", true
	}
	return "", false
}
