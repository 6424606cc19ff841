// Package cmd implements the CLI application computing UK capital gains.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cgt"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&computeCmd{}, "reports")
	c.Register(&poolCmd{}, "reports")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var transactionsFile = flag.String("transactions-file", "transactions.jsonl", "Path to the transactions file (JSONL format), or - for stdin")
var logLevel = flag.String("v", "", "Log level (debug, info, warn, error). Defaults to $CGT_LOG_LEVEL or warn")

// Config is the configuration read from the environment, an optional .env
// file included.
type Config struct {
	TieBreak string // CGT_TIEBREAK
	LogLevel string // CGT_LOG_LEVEL
	Currency string // CGT_CURRENCY
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() Config {
	_ = godotenv.Load()
	return Config{
		TieBreak: os.Getenv("CGT_TIEBREAK"),
		LogLevel: os.Getenv("CGT_LOG_LEVEL"),
		Currency: os.Getenv("CGT_CURRENCY"),
	}
}

// Options returns engine options from the configuration, tiebreak overrides
// the configured tie-break when not empty.
func (c Config) Options(tiebreak string) (cgt.Options, error) {
	if tiebreak == "" {
		tiebreak = c.TieBreak
	}
	tb, err := cgt.ParseTieBreak(tiebreak)
	if err != nil {
		return cgt.Options{}, err
	}
	level := *logLevel
	if level == "" {
		level = c.LogLevel
	}
	logger := NewLogger(os.Stderr, level)
	return cgt.Options{
		SameDayTieBreak: tb,
		Currency:        c.Currency,
		Logger:          &logger,
	}, nil
}

// NewLogger creates a console logger writing to w.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

// DecodeTransactions reads transactions from file, "" means the default
// transactions file. When path is set, the file is a JSON document and path
// selects the transactions array within it.
func DecodeTransactions(file, path string) ([]cgt.Transaction, error) {
	if file == "" {
		file = *transactionsFile
	}
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if path != "" {
		return cgt.DecodeDocument(r, path)
	}
	return cgt.DecodeTransactions(r)
}

// EncodeTransactions writes transactions sorted by date into file.
func EncodeTransactions(file string, txs []cgt.Transaction) error {
	if file == "" {
		file = *transactionsFile
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	if file == "-" {
		return cgt.EncodeTransactions(os.Stdout, txs)
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := cgt.EncodeTransactions(f, txs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printMarkdown renders md for the terminal, falling back to raw markdown.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
