package money

// AmountScale is the number of fractional decimal digits an Amount carries
// (10⁻⁸ units).
const AmountScale = 8

// Amount is a non-negative fixed-point value stored as an integer count of
// 10⁻⁸ units. The zero value is the amount zero.
type Amount struct {
	units uint64
}

// ParseAmount parses a decimal string into an Amount, truncating beyond
// AmountScale fractional digits.
func ParseAmount(s string) (Amount, error) {
	units, err := parseFixed(s, AmountScale)
	if err != nil {
		return Amount{}, err
	}
	return Amount{units: units}, nil
}

// NewAmountFromUnits builds an Amount directly from its integer unit count.
func NewAmountFromUnits(units uint64) Amount { return Amount{units: units} }

// Units returns the raw integer count of 10⁻⁸ units.
func (a Amount) Units() uint64 { return a.units }

// String formats the amount canonically.
func (a Amount) String() string { return formatFixed(a.units, AmountScale) }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.units == 0 }

// Less reports whether a < other.
func (a Amount) Less(other Amount) bool { return a.units < other.units }

// LessOrEqual reports whether a <= other.
func (a Amount) LessOrEqual(other Amount) bool { return a.units <= other.units }

// Greater reports whether a > other.
func (a Amount) Greater(other Amount) bool { return a.units > other.units }

// GreaterOrEqual reports whether a >= other.
func (a Amount) GreaterOrEqual(other Amount) bool { return a.units >= other.units }

// Equal reports whether a == other.
func (a Amount) Equal(other Amount) bool { return a.units == other.units }

// Add returns a + other.
func (a Amount) Add(other Amount) Amount { return Amount{units: addChecked(a.units, other.units)} }

// Sub returns a - other. Panics if other > a.
func (a Amount) Sub(other Amount) Amount { return Amount{units: subChecked(a.units, other.units)} }

// Min returns the smaller of a and other.
func (a Amount) Min(other Amount) Amount {
	if other.units < a.units {
		return other
	}
	return a
}

// MultiplyPrice returns the Amount-scaled value of a quantity `a` traded at
// price `p`: result_units = (a_units * p_units) / 10^PriceScale. This is the
// one cross-scale arithmetic rule in the system (money values traded at a
// price, yielding an Amount-scaled notional) — encoded once here and reused
// by both the arb-finder's expected_return and the cashout walk.
func (a Amount) MultiplyPrice(p Price) Amount {
	return Amount{units: mulDiv(a.units, p.units, pow10(PriceScale))}
}
