package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/cgt"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// amount formats money rounded to the minor unit, without currency symbol.
func amount(m cgt.Money) string {
	return m.Round().Decimal().StringFixed(2)
}

// quantity formats a quantity, "-" for zero.
func quantity(q cgt.Quantity) string {
	if q.IsZero() {
		return "-"
	}
	return q.String()
}
