package cgt

// JSON encodings of the report. Amounts are rounded to the currency minor
// unit here and nowhere else.

func (p PartGain) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("source", p.Source)
	w.Append("quantity", p.Quantity)
	if p.Source != Pool {
		w.Append("lot", p.Lot)
		w.Append("acquired", p.Acquired)
	}
	w.Append("proceeds", p.Proceeds)
	w.Append("allowableCost", p.AllowableCost)
	w.Append("gain", p.Gain)
	return w.MarshalJSON()
}

func (g DisposalGain) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", g.Security)
	w.Append("disposal", g.Disposal)
	w.Append("date", g.Date)
	w.Append("quantity", g.Quantity)
	var matched jsonObjectWriter
	for _, s := range []Source{SameDay, BedAndBreakfast, Pool} {
		if q := g.MatchedBy(s); !q.IsZero() {
			matched.Append(s.String(), q)
		}
	}
	w.Append("matched", &matched)
	w.Append("proceeds", g.Proceeds)
	w.Append("allowableCost", g.AllowableCost)
	w.Append("gain", g.Gain)
	w.Append("parts", g.Parts)
	return w.MarshalJSON()
}

func (a Adjustment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", a.Security)
	w.Append("transaction", a.Transaction)
	w.Append("date", a.Date)
	w.Append("type", a.Type)
	w.Append("from", a.From)
	w.Append("to", a.To)
	w.Append("change", a.Change())
	return w.MarshalJSON()
}

func (s PoolState) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", s.Security)
	w.Append("quantity", s.Quantity)
	w.Append("cost", s.Cost)
	return w.MarshalJSON()
}

func (f Failure) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", f.Security)
	w.Append("error", f.Err.Error())
	return w.MarshalJSON()
}

func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID.String())
	w.Append("currency", r.Currency)
	w.Append("totalGains", r.Gains)
	w.Append("totalLosses", r.Losses)
	w.Append("net", r.Net)
	w.Append("disposals", nonNil(r.Disposals))
	w.Optional("adjustments", r.Adjustments)
	w.Append("pools", nonNil(r.Pools))
	w.Optional("failures", r.Failures)
	return w.MarshalJSON()
}

// nonNil makes nil slices encode as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
