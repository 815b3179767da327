package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"commissions/internal/core"
)

func TestBuiltin(t *testing.T) {
	records, err := Builtin()
	if err != nil {
		t.Fatalf("builtin dataset: %v", err)
	}
	if len(records) != 36 {
		t.Fatalf("expected 36 records, got %d", len(records))
	}
	first := records[0]
	if first.Salesperson != "João Silva" || !first.Amount.Equal(decimal.RequireFromString("1200.50")) {
		t.Fatalf("unexpected first record: %+v", first)
	}

	summaries, err := core.Aggregate(records)
	if err != nil {
		t.Fatalf("aggregate builtin: %v", err)
	}
	if len(summaries) != 4 {
		t.Fatalf("expected 4 salespeople, got %d", len(summaries))
	}
	if c := summaries["Maria Souza"].SaleCount; c != 9 {
		t.Fatalf("Maria Souza sale count = %d, want 9", c)
	}
	// Carlos Oliveira: 800.50 1200.00 1950.30 1750.80 1300.60 500.00 at 5%,
	// 300.40 and 125.75 at 1%.
	carlos := summaries["Carlos Oliveira"]
	if !carlos.TotalSales.Equal(decimal.RequireFromString("7928.35")) {
		t.Fatalf("Carlos total sales = %s", carlos.TotalSales)
	}
	if !carlos.TotalCommission.Equal(decimal.RequireFromString("379.3715")) {
		t.Fatalf("Carlos commission = %s", carlos.TotalCommission)
	}
}

func TestDecode(t *testing.T) {
	doc := `{"sales":[{"salesperson":"A","amount":50},{"salesperson":"B","amount":100.00}]}`
	records, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[1].Salesperson != "B" || !records[1].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected records: %+v", records)
	}

	empty, err := Decode(strings.NewReader(`{"sales":[]}`))
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty list: %v %v", empty, err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		index int
	}{
		{"missing salesperson", `{"sales":[{"salesperson":"A","amount":1},{"amount":2}]}`, 1},
		{"missing amount", `{"sales":[{"salesperson":"A"}]}`, 0},
		{"null amount", `{"sales":[{"salesperson":"A","amount":null}]}`, 0},
		{"string amount", `{"sales":[{"salesperson":"A","amount":"12.5"}]}`, 0},
		{"boolean amount", `{"sales":[{"salesperson":"A","amount":true}]}`, 0},
		{"exponent amount", `{"sales":[{"salesperson":"A","amount":1e3}]}`, 0},
		{"null salesperson", `{"sales":[{"salesperson":null,"amount":1}]}`, 0},
		{"numeric salesperson", `{"sales":[{"salesperson":"A","amount":1},{"salesperson":5,"amount":2}]}`, 1},
		{"object salesperson", `{"sales":[{"salesperson":{"name":"A"},"amount":2}]}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc))
			if !errors.Is(err, core.ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
			var re *core.RecordError
			if !errors.As(err, &re) || re.Index != tc.index {
				t.Fatalf("expected record index %d, got %v", tc.index, err)
			}
		})
	}

	for _, doc := range []string{`not json`, `{}`, `{"sales":{}}`} {
		if _, err := Decode(strings.NewReader(doc)); !errors.Is(err, ErrMalformedDocument) {
			t.Fatalf("%q: expected ErrMalformedDocument, got %v", doc, err)
		}
	}
}

func TestDecodeEmptySalespersonIsMalformedForAggregator(t *testing.T) {
	records, err := Decode(strings.NewReader(`{"sales":[{"salesperson":"","amount":2}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := core.Aggregate(records); !errors.Is(err, core.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord from aggregate, got %v", err)
	}
}

func TestDecodeAmounts(t *testing.T) {
	records, err := Decode(strings.NewReader(`{"sales":[{"salesperson":"A","amount":-0},{"salesperson":"A","amount":0.5}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !records[0].Amount.IsZero() || !records[1].Amount.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("unexpected amounts: %+v", records)
	}

	_, err = Decode(strings.NewReader(`{"sales":[{"salesperson":"A","amount":1},{"salesperson":"B","amount":-3}]}`))
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if errors.Is(err, core.ErrMalformedRecord) {
		t.Fatalf("negative amount is not a malformed record: %v", err)
	}
	var re *core.RecordError
	if !errors.As(err, &re) || re.Index != 1 {
		t.Fatalf("expected record index 1, got %v", err)
	}
}
