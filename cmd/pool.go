package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
	"github.com/google/subcommands"
)

type poolCmd struct {
	file string
	path string
	on   string
}

func (*poolCmd) Name() string     { return "pool" }
func (*poolCmd) Synopsis() string { return "prints the Section 104 pool of each security" }
func (*poolCmd) Usage() string {
	return `ukcgt pool [-f <file>] [-path <jsonpath>] [-d <date>]

  Prints the quantity, cost and average cost of the Section 104 pool of each
  security at the end of the date. The whole history is computed: a disposal
  before the date may be matched with an acquisition after it.

`
}

func (c *poolCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Transactions file. Defaults to -transactions-file.")
	f.StringVar(&c.path, "path", "", "JSONPath to the transactions array when the file is a JSON document.")
	f.StringVar(&c.on, "d", "", "Date of the pool state, like 2024-04-05. Defaults to the last transaction.")
}

func (c *poolCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := LoadConfig().Options("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	txs, err := DecodeTransactions(c.file, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	var on date.Date
	if c.on != "" {
		if on, err = date.Parse(c.on); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	report := cgt.Compute(ctx, txs, opts)
	pools := report.Pools
	if c.on != "" {
		pools = report.PoolsAt(on)
	}
	writePools(os.Stdout, pools)
	for _, fail := range report.Failures {
		fmt.Fprintf(os.Stderr, "Error computing %s: %v\n", fail.Security, fail.Err)
	}
	if report.Err() != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writePools(w io.Writer, pools []cgt.PoolState) {
	for _, p := range pools {
		fmt.Fprintf(w, "%-12s %12s %14s %12s\n", p.Security, p.Quantity, p.Cost, p.AverageCost())
	}
}
