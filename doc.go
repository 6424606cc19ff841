// Package cgt computes UK Capital Gains Tax outcomes for a history of share
// transactions, following the HMRC share identification rules.
//
// The computation runs independently for each security:
//   - Corporate actions (splits, consolidations) are applied first, so that
//     every quantity is expressed in the same share units.
//   - Each disposal is identified against acquisitions made on the same day,
//     then against acquisitions made in the following 30 days
//     ("bed and breakfast"), and finally against the Section 104 pool, a
//     running weighted average of every other acquisition.
//   - Each identified disposal is turned into proceeds, allowable cost and a
//     signed gain, and all disposals are aggregated into a Report.
//
// All arithmetic is exact decimal arithmetic. Money values are rounded to the
// currency minor unit only when a report is emitted.
//
// This package serves as the foundational logic for the `ukcgt` command-line
// tool.
package cgt
