// Package numeric provides the exact rational arithmetic used for all
// economic valuation in the engine. Core logic never touches floating
// point; Value is for display only.
package numeric

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned when constructing or producing a
// fraction with a zero denominator. It can only arise from a data or
// logic defect, never from legitimate player input.
var ErrDivisionByZero = errors.New("numeric: division by zero")

// Fraction is an exact rational number. It is always kept in lowest
// terms with a positive denominator, so two fractions are equal iff
// their fields are equal. The zero value is not valid; use New or
// FromInt.
type Fraction struct {
	n int64
	d int64
}

// New creates a fraction with the given numerator and denominator,
// reduced to lowest terms. A zero denominator is rejected.
func New(n, d int64) (Fraction, error) {
	if d == 0 {
		return Fraction{}, ErrDivisionByZero
	}
	return reduce(n, d), nil
}

// FromInt creates the fraction n/1.
func FromInt(n int64) Fraction {
	return Fraction{n: n, d: 1}
}

// Zero returns the fraction 0/1.
func Zero() Fraction {
	return Fraction{n: 0, d: 1}
}

// One returns the fraction 1/1.
func One() Fraction {
	return Fraction{n: 1, d: 1}
}

func reduce(n, d int64) Fraction {
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	if g == 0 {
		// n == 0 and d was normalized positive, keep canonical 0/1.
		return Fraction{n: 0, d: 1}
	}
	return Fraction{n: n / g, d: d / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// Numerator returns the numerator of the reduced fraction.
func (f Fraction) Numerator() int64 { return f.n }

// Denominator returns the denominator of the reduced fraction. It is
// always positive for fractions built through this package.
func (f Fraction) Denominator() int64 { return f.d }

// Value returns a floating point approximation. Display only; ordering
// and arithmetic always use exact integer math.
func (f Fraction) Value() float64 {
	return float64(f.n) / float64(f.d)
}

// Integer returns the integer component of the fraction, truncated
// toward zero.
func (f Fraction) Integer() int64 { return f.n / f.d }

// Remainder returns the numerator left over after the integer
// component is removed.
func (f Fraction) Remainder() int64 { return f.n % f.d }

// IsZero reports whether the fraction equals zero.
func (f Fraction) IsZero() bool { return f.n == 0 }

// Reciprocal returns the fraction with numerator and denominator
// swapped. The reciprocal of zero does not exist.
func (f Fraction) Reciprocal() (Fraction, error) {
	if f.n == 0 {
		return Fraction{}, ErrDivisionByZero
	}
	return reduce(f.d, f.n), nil
}

// Add returns f + rhs.
func (f Fraction) Add(rhs Fraction) Fraction {
	return reduce(f.n*rhs.d+rhs.n*f.d, f.d*rhs.d)
}

// AddInt returns f + rhs.
func (f Fraction) AddInt(rhs int64) Fraction {
	return reduce(f.n+f.d*rhs, f.d)
}

// Neg returns -f.
func (f Fraction) Neg() Fraction {
	return Fraction{n: -f.n, d: f.d}
}

// Sub returns f - rhs.
func (f Fraction) Sub(rhs Fraction) Fraction {
	return f.Add(rhs.Neg())
}

// SubInt returns f - rhs.
func (f Fraction) SubInt(rhs int64) Fraction {
	return f.AddInt(-rhs)
}

// Mul returns f * rhs.
func (f Fraction) Mul(rhs Fraction) Fraction {
	return reduce(f.n*rhs.n, f.d*rhs.d)
}

// MulInt returns f * rhs.
func (f Fraction) MulInt(rhs int64) Fraction {
	return reduce(f.n*rhs, f.d)
}

// Div returns f / rhs. Dividing by a zero-valued fraction fails with
// ErrDivisionByZero.
func (f Fraction) Div(rhs Fraction) (Fraction, error) {
	r, err := rhs.Reciprocal()
	if err != nil {
		return Fraction{}, err
	}
	return f.Mul(r), nil
}

// DivInt returns f / rhs.
func (f Fraction) DivInt(rhs int64) (Fraction, error) {
	if rhs == 0 {
		return Fraction{}, ErrDivisionByZero
	}
	return reduce(f.n, f.d*rhs), nil
}

// Cmp compares f to rhs by cross multiplication, avoiding any float
// conversion. It returns -1, 0 or +1.
func (f Fraction) Cmp(rhs Fraction) int {
	// Denominators are normalized positive, so the cross products
	// order the same way the fractions do.
	l := f.n * rhs.d
	r := f.d * rhs.n
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// Less reports whether f < rhs.
func (f Fraction) Less(rhs Fraction) bool { return f.Cmp(rhs) < 0 }

func (f Fraction) String() string {
	if f.d == 1 {
		return fmt.Sprintf("%d", f.n)
	}
	if rem := f.Remainder(); f.Integer() != 0 && rem != 0 {
		return fmt.Sprintf("%d + %d/%d", f.Integer(), abs(rem), f.d)
	}
	return fmt.Sprintf("%d/%d", f.n, f.d)
}
