package money

import (
	"math/bits"
	"strings"
)

// parseFixed parses "digits('.'digits?)?" into an integer count of units at
// the given scale (number of fractional decimal digits). Fractional digits
// beyond scale are truncated, not rounded — this is the contract, not an
// oversight.
func parseFixed(s string, scale int) (uint64, error) {
	if s == "" {
		return 0, ErrEmptyInput
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, ErrMultipleDecimalPoints
	}
	if whole == "" {
		return 0, ErrEmptyInput
	}
	if !hasDot {
		frac = ""
	}

	units, err := parseDigits(whole)
	if err != nil {
		return 0, err
	}

	if len(frac) > scale {
		frac = frac[:scale]
	}
	fracUnits, err := parseDigits(frac)
	if err != nil {
		return 0, err
	}
	// pad the truncated fraction up to `scale` digits
	for i := len(frac); i < scale; i++ {
		fracUnits *= 10
	}

	hi, scaled := bits.Mul64(units, pow10(scale))
	if hi != 0 {
		return 0, ErrOverflow
	}
	total, carry := bits.Add64(scaled, fracUnits, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return total, nil
}

func parseDigits(s string) (uint64, error) {
	var v uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidDigit
		}
		hi, lo := bits.Mul64(v, 10)
		if hi != 0 {
			return 0, ErrOverflow
		}
		sum, carry := bits.Add64(lo, uint64(r-'0'), 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
		v = sum
	}
	return v, nil
}

// formatFixed renders units (at the given scale) as the shortest decimal
// string that round-trips: whole part, then '.' plus the fractional units
// zero-padded to scale and right-trimmed of zeros, omitted entirely when the
// fraction is zero.
func formatFixed(units uint64, scale int) string {
	div := pow10(scale)
	whole := units / div
	frac := units % div

	var b strings.Builder
	b.WriteString(uitoa(whole))
	if frac == 0 {
		return b.String()
	}

	fracStr := uitoa(frac)
	for len(fracStr) < scale {
		fracStr = "0" + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return b.String()
	}
	b.WriteByte('.')
	b.WriteString(fracStr)
	return b.String()
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func pow10(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// mulDiv computes (a * b) / divisor using a 128-bit intermediate product so
// the multiplication of two fixed-point quantities never silently wraps.
// Fails fast (panics) on overflow of the final result — these values are
// bounded by market ranges, so overflow here means a programmer error
// upstream, not a condition to recover from.
func mulDiv(a, b, divisor uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, divisor)
	return q
}

func addChecked(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		panic(ErrOverflow)
	}
	return sum
}

func subChecked(a, b uint64) uint64 {
	if b > a {
		panic("money: subtraction underflow")
	}
	return a - b
}
