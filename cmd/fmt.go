package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct {
	file string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the transactions file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ukcgt fmt [-f <file>]

  Validates the transactions file, sorts transactions by date, and writes
  them back in a canonical JSONL format. Missing ids are filled in.

Usage Examples:
# Formats the default transactions file in-place.
$ ukcgt fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "f", "", "Transactions file. Defaults to -transactions-file.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := DecodeTransactions(p.file, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := EncodeTransactions(p.file, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %d transactions.\n", len(txs))
	return subcommands.ExitSuccess
}
