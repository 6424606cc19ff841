// Package renderer renders CGT reports as Markdown, text tables and CSV.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
)

// Markdown renders a report. When year is set, the title names the tax
// year and its annual exempt amount.
func Markdown(r *cgt.Report, year date.TaxYear) string {
	var b strings.Builder

	if year != 0 {
		fmt.Fprintf(&b, "# Capital Gains Report %s\n\n", year)
		span := year.Range()
		fmt.Fprintf(&b, "From %s to %s.", span.From, span.To)
		if exempt, ok := cgt.AnnualExemptAmount(year); ok {
			fmt.Fprintf(&b, " Annual exempt amount: %s.", exempt)
		}
		fmt.Fprint(&b, "\n\n")
	} else {
		fmt.Fprint(&b, "# Capital Gains Report\n\n")
	}
	fmt.Fprintf(&b, "Report `%s`, amounts in %s.\n\n", r.ID, r.Currency)

	fmt.Fprint(&b, "## Disposals\n\n")
	if len(r.Disposals) == 0 {
		fmt.Fprint(&b, "No disposal.\n\n")
	} else {
		fmt.Fprintln(&b, "| Date | Security | Disposal | Quantity | Same day | Bed & breakfast | Pool | Proceeds | Allowable cost | Gain |")
		fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
		for _, d := range r.Disposals {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				d.Date, d.Security, d.Disposal, d.Quantity,
				quantity(d.MatchedBy(cgt.SameDay)),
				quantity(d.MatchedBy(cgt.BedAndBreakfast)),
				quantity(d.MatchedBy(cgt.Pool)),
				d.Proceeds, d.AllowableCost, d.Gain.SignedString(),
			)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "## Totals\n\n")
	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Gains | %s |\n", r.Gains)
	fmt.Fprintf(&b, "| Losses | %s |\n", r.Losses)
	fmt.Fprintf(&b, "| **Net** | **%s** |\n\n", r.Net.SignedString())

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Corporate Actions\n\n")
		fmt.Fprintln(w, "| Date | Security | Type | Ratio | Change |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|---:|")
		for _, a := range r.Adjustments {
			fmt.Fprintf(w, "| %s | %s | %s | %s:%s | %s |\n", a.Date, a.Security, a.Type, a.From, a.To, a.Change())
		}
		fmt.Fprintln(w)
		return len(r.Adjustments) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Section 104 Pools\n\n")
		fmt.Fprintln(w, "| Security | Quantity | Cost | Average |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		for _, p := range r.Pools {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", p.Security, p.Quantity, p.Cost, p.AverageCost())
		}
		fmt.Fprintln(w)
		return len(r.Pools) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Failures\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "- **%s**: %v\n", f.Security, f.Err)
		}
		fmt.Fprintln(w)
		return len(r.Failures) > 0
	})

	return b.String()
}
