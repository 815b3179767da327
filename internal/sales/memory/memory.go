package memory

import (
	"context"
	"sync"

	"commissions/internal/core"
	"commissions/internal/dataset"
	"commissions/internal/sales"
)

var _ sales.Reader = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	items []core.SaleRecord
}

func New(records []core.SaleRecord) *Store {
	return &Store{items: append([]core.SaleRecord(nil), records...)}
}

// NewFromDataset seeds the store with the embedded sales batch.
func NewFromDataset() (*Store, error) {
	records, err := dataset.Builtin()
	if err != nil {
		return nil, err
	}
	return New(records), nil
}

// ListSales returns a copy of the stored records in insertion order.
func (s *Store) ListSales(ctx context.Context) ([]core.SaleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SaleRecord(nil), s.items...), nil
}
