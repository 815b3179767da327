package core

import "github.com/shopspring/decimal"

// Tier is one band of the commission schedule. A tier applies from Min
// (inclusive) up to the Min of the next tier (exclusive).
type Tier struct {
	Min  decimal.Decimal
	Rate decimal.Decimal
}

// schedule is ordered by Min ascending; the first tier starts at zero.
var schedule = []Tier{
	{Min: decimal.Zero, Rate: decimal.Zero},
	{Min: decimal.NewFromInt(100), Rate: decimal.RequireFromString("0.01")},
	{Min: decimal.NewFromInt(500), Rate: decimal.RequireFromString("0.05")},
}

// Tiers returns a copy of the fixed commission schedule.
func Tiers() []Tier {
	return append([]Tier(nil), schedule...)
}

// RateFor returns the rate of the tier that amount falls into.
func RateFor(amount decimal.Decimal) decimal.Decimal {
	rate := schedule[0].Rate
	for _, t := range schedule {
		if amount.LessThan(t.Min) {
			break
		}
		rate = t.Rate
	}
	return rate
}

// Commission computes the commission earned on a single sale.
// Negative amounts are rejected with ErrInvalidAmount.
func Commission(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount.Mul(RateFor(amount)), nil
}

// Band is a tier with its inclusive upper bound, for display.
// The last band is open-ended.
type Band struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Open bool
	Rate decimal.Decimal
}

// Bands returns the schedule as display bands.
func Bands() []Band {
	cent := decimal.New(1, -2)
	out := make([]Band, len(schedule))
	for i, t := range schedule {
		out[i] = Band{Min: t.Min, Rate: t.Rate}
		if i+1 < len(schedule) {
			out[i].Max = schedule[i+1].Min.Sub(cent)
		} else {
			out[i].Open = true
		}
	}
	return out
}

// RatePercent is the band rate as a percentage, e.g. "5%".
func (b Band) RatePercent() string {
	return b.Rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

// Describe renders the band as one line of the commission rules.
func (b Band) Describe(symbol string) string {
	var rng string
	switch {
	case b.Min.IsZero() && !b.Open:
		rng = "Sales below " + FormatMoney(symbol, b.Max.Add(decimal.New(1, -2)))
	case b.Open:
		rng = "Sales from " + FormatMoney(symbol, b.Min)
	default:
		rng = "Sales from " + FormatMoney(symbol, b.Min) + " to " + FormatMoney(symbol, b.Max)
	}
	if b.Rate.IsZero() {
		return rng + ": no commission (0%)"
	}
	return rng + ": " + b.RatePercent() + " commission"
}
