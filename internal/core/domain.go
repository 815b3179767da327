package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type (
	// SaleRecord is a single sale: who sold it and for how much.
	SaleRecord struct {
		Salesperson string
		Amount      decimal.Decimal
	}

	// Summary accumulates every sale of one salesperson.
	Summary struct {
		TotalSales      decimal.Decimal
		TotalCommission decimal.Decimal
		SaleCount       int
	}
)

var (
	ErrMalformedRecord = errors.New("malformed sale record")
	ErrInvalidAmount   = errors.New("invalid amount")

	// ErrEmptySalesperson is a malformed record: the name is a required field.
	ErrEmptySalesperson = fmt.Errorf("%w: empty salesperson", ErrMalformedRecord)
)

// RecordError reports which record of a batch failed and why.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Validate rejects a missing salesperson and negative amounts. Names are
// taken verbatim; whitespace is significant.
func (r SaleRecord) Validate() error {
	if r.Salesperson == "" {
		return ErrEmptySalesperson
	}
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Add folds one sale and its commission into the summary.
func (s Summary) Add(amount, commission decimal.Decimal) Summary {
	return Summary{
		TotalSales:      s.TotalSales.Add(amount),
		TotalCommission: s.TotalCommission.Add(commission),
		SaleCount:       s.SaleCount + 1,
	}
}

// Percentage returns the effective commission rate in percent,
// or zero when nothing was sold.
func (s Summary) Percentage() decimal.Decimal {
	if !s.TotalSales.IsPositive() {
		return decimal.Zero
	}
	return s.TotalCommission.Div(s.TotalSales).Mul(decimal.NewFromInt(100))
}
