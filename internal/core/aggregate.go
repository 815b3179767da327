package core

// Aggregate groups records by salesperson and accumulates sales, commission
// and count for each. It stops at the first invalid record and returns no
// partial result. The returned map is never nil.
func Aggregate(records []SaleRecord) (map[string]Summary, error) {
	out := make(map[string]Summary)
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		commission, err := Commission(r.Amount)
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		out[r.Salesperson] = out[r.Salesperson].Add(r.Amount, commission)
	}
	return out, nil
}

// Totals sums every summary of an aggregation.
func Totals(summaries map[string]Summary) Total {
	var t Total
	for _, s := range summaries {
		t.Sales = t.Sales.Add(s.TotalSales)
		t.Commission = t.Commission.Add(s.TotalCommission)
		t.SaleCount += s.SaleCount
	}
	t.Salespeople = len(summaries)
	return t
}
