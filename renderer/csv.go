package renderer

import (
	"encoding/csv"
	"io"

	"github.com/etnz/cgt"
)

// CSV writes one row per matched component of every disposal.
func CSV(w io.Writer, r *cgt.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"security", "disposal", "date", "source", "lot", "acquired", "quantity", "proceeds", "allowable_cost", "gain"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range r.Disposals {
		for _, p := range d.Parts {
			acquired := ""
			if p.Source != cgt.Pool {
				acquired = p.Acquired.String()
			}
			row := []string{
				d.Security, d.Disposal, d.Date.String(), p.Source.String(), p.Lot, acquired,
				p.Quantity.String(), amount(p.Proceeds), amount(p.AllowableCost), amount(p.Gain),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
