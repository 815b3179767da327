// Package dataset decodes sale records from their JSON document form and
// ships the built-in sales batch the report is computed from.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"commissions/internal/core"
)

//go:embed sales.json
var builtin []byte

// ErrMalformedDocument is returned when the document itself cannot be read,
// as opposed to a single bad record inside it.
var ErrMalformedDocument = errors.New("malformed sales document")

type document struct {
	Sales *[]rawSale `json:"sales"`
}

type rawSale struct {
	Salesperson json.RawMessage `json:"salesperson"`
	Amount      json.RawMessage `json:"amount"`
}

// Builtin returns the embedded sales batch.
func Builtin() ([]core.SaleRecord, error) {
	return Decode(bytes.NewReader(builtin))
}

// Decode reads a {"sales":[{"salesperson":..,"amount":..}]} document.
// A record with a missing or mistyped field, or an amount that is not a
// plain decimal number, fails the whole document with a *core.RecordError
// wrapping core.ErrMalformedRecord. Negative amounts wrap
// core.ErrInvalidAmount.
func Decode(r io.Reader) ([]core.SaleRecord, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Sales == nil {
		return nil, fmt.Errorf("%w: missing \"sales\" list", ErrMalformedDocument)
	}

	out := make([]core.SaleRecord, 0, len(*doc.Sales))
	for i, raw := range *doc.Sales {
		rec, err := raw.record()
		if err != nil {
			return nil, &core.RecordError{Index: i, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r rawSale) record() (core.SaleRecord, error) {
	name, err := parseSalesperson(r.Salesperson)
	if err != nil {
		return core.SaleRecord{}, err
	}
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return core.SaleRecord{}, err
	}
	return core.SaleRecord{Salesperson: name, Amount: amount}, nil
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func parseSalesperson(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if isMissing(raw) {
		return "", fmt.Errorf("%w: missing salesperson", core.ErrMalformedRecord)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", fmt.Errorf("%w: salesperson is not a string: %s", core.ErrMalformedRecord, raw)
	}
	return name, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if isMissing(raw) {
		return decimal.Zero, fmt.Errorf("%w: missing amount", core.ErrMalformedRecord)
	}
	// Only bare JSON numbers are accepted; quoted or boolean amounts are not.
	s := string(raw)
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return decimal.Zero, fmt.Errorf("%w: non-numeric amount %s", core.ErrMalformedRecord, raw)
	}

	digits, negative := strings.CutPrefix(s, "-")
	d, err := core.ParseAmount(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: non-numeric amount %s", core.ErrMalformedRecord, raw)
	}
	if negative && !d.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: negative amount %s", core.ErrInvalidAmount, raw)
	}
	return d, nil
}
