package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
	"github.com/etnz/cgt/renderer"
	"github.com/google/subcommands"
)

// computeCmd holds the flags for the 'compute' subcommand.
type computeCmd struct {
	file     string
	path     string
	year     string
	tiebreak string
	format   string
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "computes capital gains and losses on disposals" }
func (*computeCmd) Usage() string {
	return `ukcgt compute [-f <file>] [-path <jsonpath>] [-year <tax year>] [-tiebreak input|prorata] [-format md|table|json|csv]

  Matches every disposal against acquisitions using the same-day, bed and
  breakfast and Section 104 pool rules, and reports the gain or loss of each
  disposal with the totals.

Usage Examples:
# Report on the 2023/2024 tax year.
$ ukcgt compute -year 2023/24

# Read transactions from a parser output document.
$ ukcgt compute -f statement.json -path $.transactions -format json

`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Transactions file. Defaults to -transactions-file.")
	f.StringVar(&c.path, "path", "", "JSONPath to the transactions array when the file is a JSON document.")
	f.StringVar(&c.year, "year", "", "Restrict the report to a UK tax year, like 2023/2024.")
	f.StringVar(&c.tiebreak, "tiebreak", "", "Same-day tie-break (input, prorata). Defaults to $CGT_TIEBREAK or input.")
	f.StringVar(&c.format, "format", "md", "Output format (md, table, json, csv)")
}

func (c *computeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var year date.TaxYear
	if c.year != "" {
		y, err := date.ParseTaxYear(c.year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing tax year: %v\n", err)
			return subcommands.ExitUsageError
		}
		year = y
	}

	opts, err := LoadConfig().Options(c.tiebreak)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	txs, err := DecodeTransactions(c.file, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	report := cgt.Compute(ctx, txs, opts)
	if year != 0 {
		report = report.ForTaxYear(year)
	}

	if err := c.write(os.Stdout, report, year); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	if report.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error computing %d securities\n", len(report.Failures))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// write prints the report in the selected format.
func (c *computeCmd) write(w io.Writer, report *cgt.Report, year date.TaxYear) error {
	switch c.format {
	case "md", "":
		printMarkdown(renderer.Markdown(report, year))
	case "table":
		renderer.Table(w, report)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "csv":
		return renderer.CSV(w, report)
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}
	return nil
}
