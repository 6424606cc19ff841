package cgt

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// TieBreak defines how a disposal is shared between several acquisitions
// made on its own day when they exceed the disposed quantity.
type TieBreak int

const (
	// InputOrder consumes same-day acquisitions in the order they were supplied.
	InputOrder TieBreak = iota
	// ProRata shares the disposal between same-day acquisitions in proportion
	// to their available quantity.
	ProRata
)

func (m TieBreak) String() string {
	switch m {
	case InputOrder:
		return "input"
	case ProRata:
		return "prorata"
	default:
		return "unknown"
	}
}

// ParseTieBreak parses a string into a TieBreak.
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "input", "":
		return InputOrder, nil
	case "prorata":
		return ProRata, nil
	default:
		return 0, fmt.Errorf("unknown same-day tie-break: %q", s)
	}
}

// DefaultBedAndBreakfastDays is the length of the bed and breakfast window.
const DefaultBedAndBreakfastDays = 30

// Options configures a computation. The zero value is valid.
type Options struct {
	SameDayTieBreak     TieBreak
	BedAndBreakfastDays int    // defaults to DefaultBedAndBreakfastDays
	Concurrency         int    // securities computed in parallel, defaults to GOMAXPROCS
	Currency            string // defaults to DefaultCurrency
	Logger              *zerolog.Logger
}

// withDefaults returns a copy of o with unset fields filled.
func (o Options) withDefaults() Options {
	if o.BedAndBreakfastDays <= 0 {
		o.BedAndBreakfastDays = DefaultBedAndBreakfastDays
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}
