// Package render turns a commission report into console output and the
// serializable document shared by the JSON API.
package render

import (
	"time"

	"github.com/shopspring/decimal"

	"commissions/internal/core"
)

// percentPlaces bounds the precision of the derived percentage column.
const percentPlaces = 4

type (
	Document struct {
		GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
		Sort        core.SortKey   `json:"sort" yaml:"sort"`
		Direction   core.Direction `json:"direction" yaml:"direction"`
		Totals      DocumentTotals `json:"totals" yaml:"totals"`
		Rows        []DocumentRow  `json:"rows" yaml:"rows"`
	}

	DocumentTotals struct {
		Sales       decimal.Decimal `json:"sales" yaml:"sales"`
		Commission  decimal.Decimal `json:"commission" yaml:"commission"`
		SaleCount   int             `json:"sale_count" yaml:"sale_count"`
		Salespeople int             `json:"salespeople" yaml:"salespeople"`
	}

	DocumentRow struct {
		Salesperson     string          `json:"salesperson" yaml:"salesperson"`
		SaleCount       int             `json:"sale_count" yaml:"sale_count"`
		TotalSales      decimal.Decimal `json:"total_sales" yaml:"total_sales"`
		TotalCommission decimal.Decimal `json:"total_commission" yaml:"total_commission"`
		Percentage      decimal.Decimal `json:"percentage" yaml:"percentage"`
	}

	// Rule is one commission band in serializable form.
	Rule struct {
		Min         decimal.Decimal  `json:"min" yaml:"min"`
		Max         *decimal.Decimal `json:"max,omitempty" yaml:"max,omitempty"`
		RatePercent string           `json:"rate" yaml:"rate"`
		Description string           `json:"description" yaml:"description"`
	}
)

// NewDocument snapshots report with its rows ordered by key and dir.
// Amounts keep full precision; only the percentage is rounded.
func NewDocument(report core.Report, key core.SortKey, dir core.Direction) Document {
	return NewDocumentFromRows(report, report.Sorted(key, dir), key, dir)
}

// NewDocumentFromRows builds a document from rows already sorted by the caller.
func NewDocumentFromRows(report core.Report, rows []core.Row, key core.SortKey, dir core.Direction) Document {
	doc := Document{
		GeneratedAt: report.GeneratedAt,
		Sort:        key,
		Direction:   dir,
		Totals: DocumentTotals{
			Sales:       report.Totals.Sales,
			Commission:  report.Totals.Commission,
			SaleCount:   report.Totals.SaleCount,
			Salespeople: report.Totals.Salespeople,
		},
		Rows: make([]DocumentRow, 0, len(rows)),
	}
	for _, r := range rows {
		doc.Rows = append(doc.Rows, DocumentRow{
			Salesperson:     r.Salesperson,
			SaleCount:       r.Summary.SaleCount,
			TotalSales:      r.Summary.TotalSales,
			TotalCommission: r.Summary.TotalCommission,
			Percentage:      r.Percentage.Round(percentPlaces),
		})
	}
	return doc
}

// Rules lists the commission schedule with human descriptions.
func Rules(symbol string) []Rule {
	bands := core.Bands()
	out := make([]Rule, 0, len(bands))
	for _, b := range bands {
		r := Rule{Min: b.Min, RatePercent: b.RatePercent(), Description: b.Describe(symbol)}
		if !b.Open {
			max := b.Max
			r.Max = &max
		}
		out = append(out, r)
	}
	return out
}
