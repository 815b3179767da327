// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting them for display.
package core

import (
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an exact monetary amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount; signs, exponents and anything that is not digits plus one
// separator are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	if len(parts) == 2 && parts[1] == "" {
		parts = parts[:1]
	}
	d, err := decimal.NewFromString(strings.Join(parts, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatMoney renders an amount with thousands grouping and two decimals,
// e.g. FormatMoney("R$", 1234.5) -> "R$ 1,234.50".
// Rounding happens here only; stored amounts keep full precision.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	s := groupedFixed(amount)
	if symbol == "" {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-" + symbol + " " + s[1:]
	}
	return symbol + " " + s
}

// FormatPercent renders a percentage with two decimals, e.g. "4.23%".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}

func groupedFixed(amount decimal.Decimal) string {
	rounded := amount.Abs().Round(2)
	_, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	out := humanize.BigComma(rounded.Truncate(0).BigInt()) + "." + frac
	if amount.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}
