// Package money implements the fixed-point Price and Amount types used
// throughout the pipeline: integer counts of a fixed number of decimal
// units, parsed from and formatted back to canonical decimal strings.
package money

import "errors"

var (
	// ErrEmptyInput is returned when the whole part of a decimal string is missing.
	ErrEmptyInput = errors.New("money: empty whole part")
	// ErrMultipleDecimalPoints is returned when a decimal string has more than one '.'.
	ErrMultipleDecimalPoints = errors.New("money: multiple decimal points")
	// ErrInvalidDigit is returned when a decimal string contains a non-digit character
	// (including a leading sign, which this grammar never accepts).
	ErrInvalidDigit = errors.New("money: invalid digit")
	// ErrOverflow is returned when a parsed or computed value does not fit the
	// representable range of the fixed-point type.
	ErrOverflow = errors.New("money: overflow")
)
