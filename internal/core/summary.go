package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SortByName       SortKey = "name"
	SortByCount      SortKey = "count"
	SortBySales      SortKey = "sales"
	SortByCommission SortKey = "commission"
	SortByPercentage SortKey = "percentage"

	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type (
	// SortKey names a sortable column of the report table.
	SortKey string

	// Direction is the order of a sorted column.
	Direction string

	// Row is one salesperson line of the report.
	Row struct {
		Salesperson string
		Summary     Summary
		Percentage  decimal.Decimal
	}

	// Total holds the grand totals across all salespeople.
	Total struct {
		Sales       decimal.Decimal
		Commission  decimal.Decimal
		SaleCount   int
		Salespeople int
	}

	// Report is the read-only view handed to presenters.
	Report struct {
		GeneratedAt time.Time
		Rows        []Row
		Totals      Total
	}
)

// BuildReport derives rows and totals from an aggregation.
// Rows are ordered by salesperson name.
func BuildReport(summaries map[string]Summary, generatedAt time.Time) Report {
	rows := make([]Row, 0, len(summaries))
	for name, s := range summaries {
		rows = append(rows, Row{Salesperson: name, Summary: s, Percentage: s.Percentage()})
	}
	SortRows(rows, SortByName, Ascending)
	return Report{
		GeneratedAt: generatedAt,
		Rows:        rows,
		Totals:      Totals(summaries),
	}
}

// Sorted returns a copy of the report rows ordered by key and direction.
func (r Report) Sorted(key SortKey, dir Direction) []Row {
	rows := append([]Row(nil), r.Rows...)
	SortRows(rows, key, dir)
	return rows
}

// SortRows sorts rows in place. Ties are broken by salesperson name so the
// order is deterministic whatever the input order.
func SortRows(rows []Row, key SortKey, dir Direction) {
	cmp := comparator(key)
	sort.SliceStable(rows, func(i, j int) bool {
		c := cmp(rows[i], rows[j])
		if c == 0 {
			return rows[i].Salesperson < rows[j].Salesperson
		}
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
}

func comparator(key SortKey) func(a, b Row) int {
	switch key {
	case SortByCount:
		return func(a, b Row) int { return a.Summary.SaleCount - b.Summary.SaleCount }
	case SortBySales:
		return func(a, b Row) int { return a.Summary.TotalSales.Cmp(b.Summary.TotalSales) }
	case SortByCommission:
		return func(a, b Row) int { return a.Summary.TotalCommission.Cmp(b.Summary.TotalCommission) }
	case SortByPercentage:
		return func(a, b Row) int { return a.Percentage.Cmp(b.Percentage) }
	default:
		return func(a, b Row) int { return strings.Compare(a.Salesperson, b.Salesperson) }
	}
}

// ParseSortKey validates a user supplied sort key. Empty means by name.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByName, nil
	case SortByName, SortByCount, SortBySales, SortByCommission, SortByPercentage:
		return k, nil
	default:
		return "", fmt.Errorf("invalid sort key %q", s)
	}
}

// ParseDirection validates a user supplied direction. Empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Ascending, nil
	case Ascending, Descending:
		return d, nil
	default:
		return "", fmt.Errorf("invalid sort direction %q", s)
	}
}

// Toggle flips the direction; used by table headers.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}
