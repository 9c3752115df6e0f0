package handhistory

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// FormatMoney renders minor units with the currency symbol: whole amounts
// without decimals ("€4"), everything else with two ("€0.50").
func FormatMoney(symbol string, cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	if cents%100 == 0 {
		return fmt.Sprintf("%s%s%d", sign, symbol, cents/100)
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, cents/100, cents%100)
}

// ParseMoney reads an amount written by FormatMoney with any currency
// symbol.
func ParseMoney(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	neg := strings.HasPrefix(raw, "-")
	raw = strings.TrimLeftFunc(raw, func(r rune) bool { return !unicode.IsDigit(r) })
	if raw == "" {
		return 0, fmt.Errorf("%w: amount %q", ErrMalformed, s)
	}
	whole, frac, hasFrac := strings.Cut(raw, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", ErrMalformed, s)
	}
	cents := units * 100
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		if len(frac) != 2 {
			return 0, fmt.Errorf("%w: amount %q", ErrMalformed, s)
		}
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q", ErrMalformed, s)
		}
		cents += n
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}
