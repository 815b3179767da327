// Command commissions-worker consumes report computed events from the
// broker and audits their totals.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"commissions/internal/amqp"
	"commissions/internal/cli"
	applog "commissions/internal/log"
	"commissions/internal/worker"
)

const historySize = 50

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cli.SetupLogger(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "Worker needs a broker", errors.New("AMQP_URL is not set"))
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	client := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	defer client.Close()

	w := worker.NewReportWorker(historySize, logger)

	logger.Info("Starting commissions-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		applog.FieldOperation, applog.OpStartup)

	err = client.ConsumeReportComputed(ctx, w.HandleReportComputed)
	if err != nil && !errors.Is(err, context.Canceled) {
		client.Close()
		cli.Fatal(logger, "Message consumption failed", err)
	}

	if latest, ok := w.Latest(); ok {
		logger.Info("Last audited report",
			"generated_at", latest.GeneratedAt,
			applog.FieldSaleCount, latest.SaleCount)
	}
	logger.Info("Worker stopped", applog.FieldOperation, applog.OpShutdown)
}
