package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"commissions/internal/core"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Options controls one console rendering.
type Options struct {
	Format         Format
	Sort           core.SortKey
	Direction      core.Direction
	CurrencySymbol string
	ShowRules      bool
}

// Console writes reports to a terminal or pipe.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Render(report core.Report, opts Options) error {
	if opts.Sort == "" {
		opts.Sort = core.SortByName
	}
	if opts.Direction == "" {
		opts.Direction = core.Ascending
	}

	switch opts.Format {
	case FormatJSON:
		return c.renderJSON(report, opts)
	case FormatYAML:
		return c.renderYAML(report, opts)
	case FormatTable, "":
		return c.renderTable(report, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

type envelope struct {
	Report Document `json:"report" yaml:"report"`
	Rules  []Rule   `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func (c *Console) envelope(report core.Report, opts Options) envelope {
	env := envelope{Report: NewDocument(report, opts.Sort, opts.Direction)}
	if opts.ShowRules {
		env.Rules = Rules(opts.CurrencySymbol)
	}
	return env
}

func (c *Console) renderJSON(report core.Report, opts Options) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.envelope(report, opts)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (c *Console) renderYAML(report core.Report, opts Options) error {
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(c.envelope(report, opts)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (c *Console) renderTable(report core.Report, opts Options) error {
	sym := opts.CurrencySymbol
	var b strings.Builder

	b.WriteString("SALES COMMISSION REPORT\n")
	b.WriteString(GeneratedAtLine(report) + "\n\n")

	cards := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	for _, card := range Cards(report, sym) {
		fmt.Fprintf(cards, "%s\t%s\n", card.Title, card.Value)
	}
	if err := cards.Flush(); err != nil {
		return err
	}
	b.WriteString("\n")

	rows := report.Sorted(opts.Sort, opts.Direction)
	if len(rows) == 0 {
		b.WriteString("No sales recorded.\n")
	} else {
		tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "Salesperson\tSales\tTotal sales\tTotal commission\tCommission %")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.Salesperson,
				strconv.Itoa(r.Summary.SaleCount),
				core.FormatMoney(sym, r.Summary.TotalSales),
				core.FormatMoney(sym, r.Summary.TotalCommission),
				core.FormatPercent(r.Percentage))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(&b, "\nSorted by %s (%s)\n", opts.Sort, opts.Direction)
	}

	if opts.ShowRules {
		b.WriteString("\nCommission rules:\n")
		for _, r := range Rules(sym) {
			b.WriteString("  - " + r.Description + "\n")
		}
	}

	_, err := io.WriteString(c.out, b.String())
	return err
}

// Card is one headline figure of the report.
type Card struct {
	Title string
	Value string
	Class string
}

// Cards returns the four headline figures in display order.
func Cards(report core.Report, symbol string) []Card {
	t := report.Totals
	return []Card{
		{Title: "Total sales", Value: core.FormatMoney(symbol, t.Sales), Class: "sales"},
		{Title: "Total commission", Value: core.FormatMoney(symbol, t.Commission), Class: "commission"},
		{Title: "Number of sales", Value: strconv.Itoa(t.SaleCount), Class: "count"},
		{Title: "Salespeople", Value: strconv.Itoa(t.Salespeople), Class: "people"},
	}
}

// GeneratedAtLine renders the report timestamp, e.g.
// "Generated on 02/05/2024 at 14:00".
func GeneratedAtLine(report core.Report) string {
	return "Generated on " + report.GeneratedAt.Format("02/01/2006") + " at " + report.GeneratedAt.Format("15:04")
}
