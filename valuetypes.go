package carpet

import (
	"fmt"
	"math/big"
	"time"
)

// Decimal is Carpet's BigDecimal-equivalent: an arbitrary-precision value
// with an explicit runtime scale, independent of the column's configured
// target scale (spec §4.3.5 rescale rule operates on exactly this gap).
//
// It is deliberately not backed by a third-party decimal library: none of
// the examples in the retrieval pack import one (see DESIGN.md), so Decimal
// is built on math/big, the same way the teacher's own type_decimal.go
// reasons about scale using math.Pow10 for the narrower fixed-width cases.
type Decimal struct {
	unscaled *big.Int
	scale    int
}

// NewDecimal builds a Decimal from an unscaled big integer and a scale,
// i.e. the value unscaled * 10^-scale.
func NewDecimal(unscaled *big.Int, scale int) Decimal {
	return Decimal{unscaled: new(big.Int).Set(unscaled), scale: scale}
}

// ParseDecimal parses a base-10 literal such as "1.234" or "-42".
func ParseDecimal(s string) (Decimal, error) {
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return Decimal{}, fmt.Errorf("carpet: invalid decimal literal %q", s)
	}
	neg := r.Sign() < 0
	if neg {
		r.Neg(r)
	}
	scale := 0
	denom := r.Denom()
	num := new(big.Int).Set(r.Num())
	ten := big.NewInt(10)
	d := new(big.Int).Set(denom)
	for d.Cmp(big.NewInt(1)) != 0 {
		scale++
		// Guard against non-power-of-ten denominators (e.g. 1/3); reduce
		// until exact division is no longer possible, bailing out rather
		// than looping forever.
		if scale > 100 {
			return Decimal{}, fmt.Errorf("carpet: %q is not exactly representable in base 10", s)
		}
		q, rem := new(big.Int).QuoRem(d, ten, new(big.Int))
		if rem.Sign() == 0 {
			d = q
		} else {
			// denom isn't a clean power of ten once all factors of ten are
			// removed; fall back to a direct string-scale parse instead.
			return parseDecimalDecimalString(s)
		}
	}
	if neg {
		num.Neg(num)
	}
	return Decimal{unscaled: num, scale: scale}, nil
}

func parseDecimalDecimalString(s string) (Decimal, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart, fracPart, hasFrac := cutByte(s, '.')
	digits := intPart + fracPart
	scale := 0
	if hasFrac {
		scale = len(fracPart)
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("carpet: invalid decimal literal %q", s)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return Decimal{unscaled: unscaled, scale: scale}, nil
}

func cutByte(s string, b byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// Scale returns the decimal's runtime scale.
func (d Decimal) Scale() int { return d.scale }

// Unscaled returns the unscaled big.Int value (unscaled * 10^-scale == d).
func (d Decimal) Unscaled() *big.Int { return new(big.Int).Set(d.unscaled) }

// Precision returns the number of base-10 digits in the unscaled value
// (minimum 1).
func (d Decimal) Precision() int {
	s := new(big.Int).Abs(d.unscaled).Text(10)
	if s == "0" {
		return 1
	}
	return len(s)
}

// String renders the decimal in plain base-10 notation.
func (d Decimal) String() string {
	neg := d.unscaled.Sign() < 0
	digits := new(big.Int).Abs(d.unscaled).Text(10)
	if d.scale <= 0 {
		s := digits + zeros(-d.scale)
		if neg {
			return "-" + s
		}
		return s
	}
	for len(digits) <= d.scale {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-d.scale]
	fracPart := digits[len(digits)-d.scale:]
	out := intPart + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

func zeros(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

// rescale rebuilds d at targetScale, applying mode when the scales differ.
// Matches spec §4.3.5: with RoundUnnecessary, an inexact rescale is an
// error; otherwise the unscaled value is divided/multiplied by the
// appropriate power of ten with the configured rounding policy.
func (d Decimal) rescale(targetScale int, mode RoundingMode) (Decimal, error) {
	if d.scale == targetScale {
		return d, nil
	}
	if targetScale > d.scale {
		factor := pow10(targetScale - d.scale)
		return Decimal{unscaled: new(big.Int).Mul(d.unscaled, factor), scale: targetScale}, nil
	}

	factor := pow10(d.scale - targetScale)
	q, r := new(big.Int).QuoRem(d.unscaled, factor, new(big.Int))
	if r.Sign() == 0 {
		return Decimal{unscaled: q, scale: targetScale}, nil
	}
	if mode == RoundUnnecessary {
		return Decimal{}, fmt.Errorf("rounding necessary: %s cannot be represented exactly at scale %d", d.String(), targetScale)
	}
	applyRounding(q, r, factor, d.unscaled.Sign() < 0, mode)
	return Decimal{unscaled: q, scale: targetScale}, nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func applyRounding(q, r, factor *big.Int, negative bool, mode RoundingMode) {
	absR := new(big.Int).Abs(r)
	twice := new(big.Int).Lsh(absR, 1)
	one := big.NewInt(1)
	switch mode {
	case RoundDown:
		// truncation toward zero: q already is that (QuoRem truncates).
	case RoundUp:
		if negative {
			q.Sub(q, one)
		} else {
			q.Add(q, one)
		}
	case RoundFloor:
		if negative {
			q.Sub(q, one)
		}
	case RoundCeiling:
		if !negative {
			q.Add(q, one)
		}
	case RoundHalfUp:
		if twice.Cmp(factor) >= 0 {
			if negative {
				q.Sub(q, one)
			} else {
				q.Add(q, one)
			}
		}
	case RoundHalfEven:
		cmp := twice.Cmp(factor)
		if cmp > 0 || (cmp == 0 && q.Bit(0) == 1) {
			if negative {
				q.Sub(q, one)
			} else {
				q.Add(q, one)
			}
		}
	}
}

// DateOnly is days-since-1970-01-01 (spec §3: Int32 days-since-1970).
type DateOnly int32

// DateOnlyFromTime truncates t (interpreted in UTC) to a day count.
func DateOnlyFromTime(t time.Time) DateOnly {
	days := t.UTC().Truncate(24 * time.Hour).Unix() / 86400
	return DateOnly(days)
}

// Time returns the UTC midnight instant for the day.
func (d DateOnly) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// TimeOfDay is a wall-clock time of day with no associated date, stored as
// a duration since midnight (spec §3: ms/µs/ns selected by the writer-level
// TimeUnit).
type TimeOfDay time.Duration

// LocalDateTime is a date-time with no associated time zone (spec §3:
// LocalTimestamp, "not adjusted to UTC").
type LocalDateTime struct {
	Year                              int
	Month                             time.Month
	Day, Hour, Minute, Second, Nanos  int
}

// AsTime renders the local date-time as a time.Time in UTC purely as a
// convenient carrier; no zone conversion is implied.
func (l LocalDateTime) AsTime() time.Time {
	return time.Date(l.Year, l.Month, l.Day, l.Hour, l.Minute, l.Second, l.Nanos, time.UTC)
}

func localDateTimeFromTime(t time.Time) LocalDateTime {
	return LocalDateTime{
		Year: t.Year(), Month: t.Month(), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanos: t.Nanosecond(),
	}
}

// Set is a collection wrapper with List-identical wire encoding but read
// back into a set-typed container (spec §3 Set variant). It is detected by
// the reflective front-end via the instantiated type name ("Set[...]"),
// since Go's type system has no native set type.
type Set[T comparable] []T
