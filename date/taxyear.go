package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaxYear is a UK tax year, running from 6 April to 5 April of the next year.
// It is identified by the calendar year in which it starts.
type TaxYear int

// TaxYearOf returns the tax year containing d.
func TaxYearOf(d Date) TaxYear {
	if d.Before(New(d.Year(), time.April, 6)) {
		return TaxYear(d.Year() - 1)
	}
	return TaxYear(d.Year())
}

// Start returns the first day of the tax year (6 April).
func (y TaxYear) Start() Date { return New(int(y), time.April, 6) }

// End returns the last day of the tax year (5 April of the following year).
func (y TaxYear) End() Date { return New(int(y)+1, time.April, 5) }

// Range returns the dates covered by the tax year.
func (y TaxYear) Range() Range { return Range{From: y.Start(), To: y.End()} }

// Contains reports whether d falls in the tax year.
func (y TaxYear) Contains(d Date) bool { return y.Range().Contains(d) }

// String formats the tax year as "2023/2024".
func (y TaxYear) String() string { return fmt.Sprintf("%d/%d", int(y), int(y)+1) }

// ParseTaxYear parses "2023/2024", "2023/24" or "2023-24".
func ParseTaxYear(s string) (TaxYear, error) {
	s = strings.TrimSpace(s)
	start, end, ok := strings.Cut(s, "/")
	if !ok {
		start, end, ok = strings.Cut(s, "-")
	}
	if !ok {
		return 0, fmt.Errorf("invalid tax year %q want format %q", s, "2023/2024")
	}
	y, err := strconv.Atoi(start)
	if err != nil || len(start) != 4 {
		return 0, fmt.Errorf("invalid tax year %q: bad start year", s)
	}
	next := y + 1
	switch len(end) {
	case 2:
		if end != fmt.Sprintf("%02d", next%100) {
			return 0, fmt.Errorf("invalid tax year %q: %q does not follow %d", s, end, y)
		}
	case 4:
		if end != strconv.Itoa(next) {
			return 0, fmt.Errorf("invalid tax year %q: %q does not follow %d", s, end, y)
		}
	default:
		return 0, fmt.Errorf("invalid tax year %q want format %q", s, "2023/2024")
	}
	return TaxYear(y), nil
}
