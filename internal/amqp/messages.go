package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"commissions/internal/core"
)

// ReportComputedMessage announces that a commission report was produced.
// It carries the grand totals only; consumers that need the per-salesperson
// rows fetch them from /api/report.
type ReportComputedMessage struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	Salespeople     int             `json:"salespeople"`
	SaleCount       int             `json:"sale_count"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

func NewReportComputedMessage(r core.Report) *ReportComputedMessage {
	return &ReportComputedMessage{
		GeneratedAt:     r.GeneratedAt,
		Salespeople:     r.Totals.Salespeople,
		SaleCount:       r.Totals.SaleCount,
		TotalSales:      r.Totals.Sales,
		TotalCommission: r.Totals.Commission,
	}
}

func (m *ReportComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportComputedMessageFromJSON(data []byte) (*ReportComputedMessage, error) {
	var msg ReportComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
