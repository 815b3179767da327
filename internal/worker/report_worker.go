// Package worker consumes report computed events and audits them against
// the commission invariants.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"commissions/internal/amqp"
	"commissions/internal/core"
	applog "commissions/internal/log"
)

var ErrInconsistentReport = errors.New("inconsistent report")

// ReportWorker checks every announced report and keeps the most recent
// ones in memory.
type ReportWorker struct {
	logger   *applog.Logger
	capacity int

	mu      sync.Mutex
	history []amqp.ReportComputedMessage
}

func NewReportWorker(capacity int, logger *applog.Logger) *ReportWorker {
	if capacity <= 0 {
		capacity = 1
	}
	return &ReportWorker{
		logger:   logger.WithComponent(applog.ComponentWorker),
		capacity: capacity,
	}
}

// HandleReportComputed validates msg and records it. Inconsistent reports
// are rejected with amqp.ErrRejectMessage so they are not redelivered.
func (w *ReportWorker) HandleReportComputed(ctx context.Context, msg *amqp.ReportComputedMessage) error {
	if err := Check(msg); err != nil {
		w.logger.WarnContext(ctx, "Rejected report computed message", applog.FieldError, err)
		return fmt.Errorf("%w: %w", amqp.ErrRejectMessage, err)
	}

	w.mu.Lock()
	w.history = append(w.history, *msg)
	if len(w.history) > w.capacity {
		w.history = w.history[len(w.history)-w.capacity:]
	}
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Report computed",
		"generated_at", msg.GeneratedAt,
		applog.FieldSalespeople, msg.Salespeople,
		applog.FieldSaleCount, msg.SaleCount,
		applog.FieldTotalSales, core.FormatMoney("", msg.TotalSales),
		applog.FieldCommission, core.FormatMoney("", msg.TotalCommission))
	return nil
}

// Check reports whether the totals of msg could have come from the
// commission schedule.
func Check(msg *amqp.ReportComputedMessage) error {
	switch {
	case msg.Salespeople < 0 || msg.SaleCount < 0:
		return fmt.Errorf("%w: negative count", ErrInconsistentReport)
	case msg.SaleCount < msg.Salespeople:
		return fmt.Errorf("%w: %d sales for %d salespeople", ErrInconsistentReport, msg.SaleCount, msg.Salespeople)
	case msg.TotalSales.IsNegative() || msg.TotalCommission.IsNegative():
		return fmt.Errorf("%w: negative total", ErrInconsistentReport)
	case msg.TotalCommission.GreaterThan(msg.TotalSales.Mul(maxRate())):
		return fmt.Errorf("%w: commission %s exceeds top rate of sales %s",
			ErrInconsistentReport, msg.TotalCommission, msg.TotalSales)
	}
	return nil
}

func maxRate() decimal.Decimal {
	tiers := core.Tiers()
	return tiers[len(tiers)-1].Rate
}

// History returns the recorded reports, oldest first.
func (w *ReportWorker) History() []amqp.ReportComputedMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]amqp.ReportComputedMessage(nil), w.history...)
}

// Latest returns the most recent recorded report.
func (w *ReportWorker) Latest() (amqp.ReportComputedMessage, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.history) == 0 {
		return amqp.ReportComputedMessage{}, false
	}
	return w.history[len(w.history)-1], true
}
