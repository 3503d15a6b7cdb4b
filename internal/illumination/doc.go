// Package illumination computes illumination masks from background captures
// and divides them out of target captures.
//
// The work happens in three steps:
//
//  1. An Accumulator smooths each background reference and sums it into a
//     float64 grid.
//  2. NormalizeMask divides the sum by the reference count and saturates the
//     mean into an 8-bit mask.
//  3. Compensate divides a target by the mask, zeroes non-finite quotients and
//     stretches the result over the full 8-bit range.
//
// Arithmetic runs on gonum dense matrices with one row per image row, so no
// value is truncated before the final 8-bit conversion.
package illumination
