package money

// PriceScale is the number of fractional decimal digits a Price carries
// (10⁻⁴ units — the venues' canonical price quotation for this pair).
const PriceScale = 4

// Price is a non-negative fixed-point value stored as an integer count of
// 10⁻⁴ units. The zero value is the price zero.
type Price struct {
	units uint64
}

// ParsePrice parses a decimal string (digits, optionally '.' plus digits,
// truncated beyond PriceScale fractional digits) into a Price.
func ParsePrice(s string) (Price, error) {
	units, err := parseFixed(s, PriceScale)
	if err != nil {
		return Price{}, err
	}
	return Price{units: units}, nil
}

// NewPriceFromUnits builds a Price directly from its integer unit count.
func NewPriceFromUnits(units uint64) Price { return Price{units: units} }

// Units returns the raw integer count of 10⁻⁴ units.
func (p Price) Units() uint64 { return p.units }

// String formats the price canonically: no trailing fractional zeros, no
// decimal point when integral, never a negative sign.
func (p Price) String() string { return formatFixed(p.units, PriceScale) }

// IsZero reports whether the price is exactly zero.
func (p Price) IsZero() bool { return p.units == 0 }

// Less reports whether p < other, by the underlying integer order.
func (p Price) Less(other Price) bool { return p.units < other.units }

// LessOrEqual reports whether p <= other.
func (p Price) LessOrEqual(other Price) bool { return p.units <= other.units }

// Greater reports whether p > other.
func (p Price) Greater(other Price) bool { return p.units > other.units }

// GreaterOrEqual reports whether p >= other.
func (p Price) GreaterOrEqual(other Price) bool { return p.units >= other.units }

// Equal reports whether p == other.
func (p Price) Equal(other Price) bool { return p.units == other.units }

// Add returns p + other.
func (p Price) Add(other Price) Price { return Price{units: addChecked(p.units, other.units)} }

// Sub returns p - other. Panics if other > p (prices never go negative).
func (p Price) Sub(other Price) Price { return Price{units: subChecked(p.units, other.units)} }
