package cgt

import "github.com/etnz/cgt/date"

// AnnualExemptAmount returns the CGT annual exempt amount of an individual
// for a tax year, and false for years it does not know. It is informative
// only: no tax is computed.
func AnnualExemptAmount(y date.TaxYear) (Money, bool) {
	switch {
	case y >= 2024:
		return GBP(3000), true
	case y == 2023:
		return GBP(6000), true
	case y >= 2020:
		return GBP(12300), true
	case y == 2019:
		return GBP(12000), true
	case y == 2018:
		return GBP(11700), true
	case y == 2017:
		return GBP(11300), true
	case y == 2016, y == 2015:
		return GBP(11100), true
	default:
		return Money{}, false
	}
}
