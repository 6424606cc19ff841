package renderer

import (
	"io"

	"github.com/etnz/cgt"
	"github.com/olekukonko/tablewriter"
)

// Table writes the disposals of a report as a plain text table, with totals
// in the footer.
func Table(w io.Writer, r *cgt.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Security", "Disposal", "Quantity", "Rules", "Proceeds", "Cost", "Gain"})
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, d := range r.Disposals {
		table.Append([]string{
			d.Date.String(), d.Security, d.Disposal, d.Quantity.String(), rules(d.MatchRecord),
			amount(d.Proceeds), amount(d.AllowableCost), amount(d.Gain),
		})
	}
	table.SetFooter([]string{"", "", "", "", "Gains " + amount(r.Gains), "Losses " + amount(r.Losses), "Net", amount(r.Net)})
	table.Render()
}

// rules summarises the rules that matched a disposal, like "S+B+P".
func rules(r cgt.MatchRecord) string {
	var s string
	for i, src := range []cgt.Source{cgt.SameDay, cgt.BedAndBreakfast, cgt.Pool} {
		if r.MatchedBy(src).IsZero() {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += "SBP"[i : i+1]
	}
	return s
}
