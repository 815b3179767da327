// Command commissions-report prints the commission report of the embedded
// sales dataset as a table, JSON or YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"commissions/internal/cli"
	"commissions/internal/core"
	"commissions/internal/render"
	"commissions/internal/sales/memory"
	"commissions/internal/services"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("commissions-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", cfg.OutputFormat, "output format: table, json or yaml")
	sortKey := fs.String("sort", cfg.DefaultSort, "sort column: name, count, sales, commission or percentage")
	desc := fs.Bool("desc", cfg.DefaultDirection == string(core.Descending), "sort in descending order")
	rules := fs.Bool("rules", false, "append the commission rules")
	currency := fs.String("currency", cfg.CurrencySymbol, "currency symbol used in the table")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	outFormat, err := render.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	key, err := core.ParseSortKey(*sortKey)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	dir := core.Ascending
	if *desc {
		dir = core.Descending
	}

	// logs go to stderr so stdout stays machine readable
	logger, err := cli.SetupLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	store, err := memory.NewFromDataset()
	if err != nil {
		logger.Error("Failed to load embedded sales dataset", "error", err)
		return 1
	}
	svc := services.NewReportService(store, cli.NewPublisher(cfg, logger), logger)
	defer svc.Close()

	report, err := svc.Generate(ctx)
	if err != nil {
		logger.Error("Failed to generate report", "error", err)
		return 1
	}

	err = render.NewConsole(stdout).Render(report, render.Options{
		Format:         outFormat,
		Sort:           key,
		Direction:      dir,
		CurrencySymbol: *currency,
		ShowRules:      *rules,
	})
	if err != nil {
		logger.Error("Failed to render report", "error", err)
		return 1
	}
	return 0
}
