package http

import (
	"net/url"
	"strconv"

	"commissions/internal/core"
	"commissions/internal/render"
)

type (
	dashboardView struct {
		GeneratedAt string
		Cards       []render.Card
		Table       tableView
	}

	tableView struct {
		Columns []columnView
		Rows    []rowView
		Sort    core.SortKey
		Dir     core.Direction
	}

	columnView struct {
		Label     string
		Numeric   bool
		Active    bool
		Indicator string
		// Href and PartialURL are complete URLs so the template never
		// interpolates inside a query string
		Href       string
		PartialURL string
	}

	rowView struct {
		Salesperson string
		Count       string
		Sales       string
		Commission  string
		Percentage  string
	}

	rulesView struct {
		Lines []string
	}
)

var columns = []struct {
	key     core.SortKey
	label   string
	numeric bool
}{
	{core.SortByName, "Salesperson", false},
	{core.SortByCount, "Sales", true},
	{core.SortBySales, "Total sales", true},
	{core.SortByCommission, "Total commission", true},
	{core.SortByPercentage, "Commission %", true},
}

func newTableView(rows []core.Row, key core.SortKey, dir core.Direction, symbol string) tableView {
	tv := tableView{Sort: key, Dir: dir}

	for _, c := range columns {
		col := columnView{Label: c.label, Numeric: c.numeric}
		next := core.Ascending
		if c.key == key {
			col.Active = true
			col.Indicator = "▲"
			if dir == core.Descending {
				col.Indicator = "▼"
			}
			next = dir.Toggle()
		}
		q := url.Values{"sort": {string(c.key)}, "dir": {string(next)}}.Encode()
		col.Href = "/?" + q
		col.PartialURL = "/ui/report-table?" + q
		tv.Columns = append(tv.Columns, col)
	}

	for _, r := range rows {
		tv.Rows = append(tv.Rows, rowView{
			Salesperson: r.Salesperson,
			Count:       strconv.Itoa(r.Summary.SaleCount),
			Sales:       core.FormatMoney(symbol, r.Summary.TotalSales),
			Commission:  core.FormatMoney(symbol, r.Summary.TotalCommission),
			Percentage:  core.FormatPercent(r.Percentage),
		})
	}
	return tv
}

func newRulesView(symbol string) rulesView {
	var v rulesView
	for _, r := range render.Rules(symbol) {
		v.Lines = append(v.Lines, r.Description)
	}
	return v
}
