package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"commissions/internal/amqp"
	"commissions/internal/core"
	applog "commissions/internal/log"
	"commissions/internal/sales"
)

// ReportPublisher announces computed reports to downstream consumers.
type ReportPublisher interface {
	PublishReportComputed(ctx context.Context, msg *amqp.ReportComputedMessage) error
}

// ReportService reads the sales batch, aggregates it and builds the report
// handed to presenters.
type ReportService struct {
	reader    sales.Reader
	publisher ReportPublisher
	logger    *applog.Logger
	events    *applog.StructuredLogger
	now       func() time.Time
}

// NewReportService wires the service. publisher may be nil, in which case
// no event is published.
func NewReportService(reader sales.Reader, publisher ReportPublisher, logger *applog.Logger) *ReportService {
	logger = logger.WithComponent(applog.ComponentReport)
	return &ReportService{
		reader:    reader,
		publisher: publisher,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
		now:       time.Now,
	}
}

// Generate computes a fresh report. Aggregation errors abort with no
// partial result; publish errors are only logged.
func (s *ReportService) Generate(ctx context.Context) (core.Report, error) {
	records, err := s.reader.ListSales(ctx)
	if err != nil {
		s.events.LogError(ctx, "Failed to read sales", err, applog.OpRead, nil)
		return core.Report{}, fmt.Errorf("read sales: %w", err)
	}

	summaries, err := core.Aggregate(records)
	if err != nil {
		s.events.LogError(ctx, "Failed to aggregate sales", err, applog.OpAggregate,
			applog.LogFields{applog.FieldSaleCount: len(records)})
		return core.Report{}, fmt.Errorf("aggregate sales: %w", err)
	}

	report := core.BuildReport(summaries, s.now())
	s.events.LogReportGenerated(ctx,
		report.Totals.Salespeople,
		report.Totals.SaleCount,
		report.Totals.Sales.String(),
		report.Totals.Commission.String())

	s.publish(ctx, report)
	return report, nil
}

func (s *ReportService) publish(ctx context.Context, report core.Report) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No publisher configured, skipping report event")
		return
	}
	if err := s.publisher.PublishReportComputed(ctx, amqp.NewReportComputedMessage(report)); err != nil {
		s.events.LogError(ctx, "Failed to publish report event", err, applog.OpPublish, nil)
	}
}

// Close releases the publisher when it holds a connection.
func (s *ReportService) Close() error {
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
