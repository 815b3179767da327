package sales

import (
	"context"

	"commissions/internal/core"
)

// Ports for inbound sale sources.
type (
	// Reader returns the batch of sales a report is computed from.
	Reader interface {
		ListSales(ctx context.Context) ([]core.SaleRecord, error)
	}
)
