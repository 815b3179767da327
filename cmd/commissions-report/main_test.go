package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	for _, k := range []string{"OUTPUT_FORMAT", "DEFAULT_SORT", "DEFAULT_DIRECTION", "CURRENCY_SYMBOL", "AMQP_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func TestRun_Table(t *testing.T) {
	setEnv(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-sort", "commission", "-desc", "-rules"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"Number of sales    36",
		"Salespeople        4",
		"Sorted by commission (desc)",
		"Commission rules:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_JSON(t *testing.T) {
	setEnv(t)
	var stdout, stderr bytes.Buffer

	if code := run(context.Background(), []string{"-format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	var got struct {
		Report struct {
			Totals struct {
				SaleCount   int `json:"sale_count"`
				Salespeople int `json:"salespeople"`
			} `json:"totals"`
		} `json:"report"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not json: %v\n%s", err, stdout.String())
	}
	if got.Report.Totals.SaleCount != 36 || got.Report.Totals.Salespeople != 4 {
		t.Errorf("totals = %+v", got.Report.Totals)
	}
}

func TestRun_BadFlags(t *testing.T) {
	setEnv(t)
	tests := [][]string{
		{"-format", "csv"},
		{"-sort", "region"},
		{"-unknown"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), args, &stdout, &stderr); code != 2 {
			t.Errorf("run(%v) = %d, want 2", args, code)
		}
	}
}
