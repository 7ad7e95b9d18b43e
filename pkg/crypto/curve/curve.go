// Package curve implements short Weierstrass elliptic curves y² = x³ + ax + b
// over a prime field, with the affine group law, double-and-add scalar
// multiplication and point decompression. It is meant for offline forensic
// calculations: arithmetic is arbitrary-precision and not constant-time.
package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/txcrack/pkg/crypto/gfp"
)

// ErrNotOnCurve is returned when decompression finds no valid y for the
// given x, or when an explicit point fails the curve equation.
var ErrNotOnCurve = errors.New("point is not on the curve")

// Curve represents a short Weierstrass curve over gfp.Field with a
// distinguished generator G of order N. Curves are immutable after
// construction and can be shared freely.
type Curve struct {
	Field *gfp.Field
	A     gfp.Element
	B     gfp.Element
	G     Point
	N     *big.Int
}

// Point is either the point at infinity or an affine pair of field
// elements. The point at infinity is a tagged variant, not a magic (0,0)
// pair: (0,0) is a legitimate affine point on some curves.
type Point struct {
	curve *Curve
	x, y  gfp.Element
	inf   bool
}

// New constructs a curve from the raw parameters. gx, gy locate the
// generator, n is its order.
func New(p, a, b, gx, gy, n *big.Int) *Curve {
	f := gfp.NewField(p)
	c := &Curve{
		Field: f,
		A:     f.Value(a),
		B:     f.Value(b),
		N:     new(big.Int).Set(n),
	}
	c.G = Point{curve: c, x: f.Value(gx), y: f.Value(gy)}
	return c
}

// Secp256k1 returns the Bitcoin curve:
// p = 2^256 - 2^32 - 977, a = 0, b = 7.
func Secp256k1() *Curve {
	p, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	gx, _ := new(big.Int).SetString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", 16)
	gy, _ := new(big.Int).SetString("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8", 16)
	n, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	return New(p, big.NewInt(0), big.NewInt(7), gx, gy, n)
}

// Infinity returns the additive identity of the curve group.
func (c *Curve) Infinity() Point {
	return Point{curve: c, inf: true}
}

// Point constructs an affine point from two integers without checking the
// curve equation, use IsOnCurve for validation.
func (c *Curve) Point(x, y *big.Int) Point {
	return Point{curve: c, x: c.Field.Value(x), y: c.Field.Value(y)}
}

// Decompress calculates the y coordinate for the given x. There are two
// possible solutions, flag selects between them by parity. ErrNotOnCurve is
// returned when x³ + ax + b is not a square.
func (c *Curve) Decompress(x *big.Int, flag uint) (Point, error) {
	xe := c.Field.Value(x)
	ysquare := xe.Mul(xe).Mul(xe).Add(c.A.Mul(xe)).Add(c.B)
	y, err := ysquare.Sqrt(flag)
	if err != nil {
		if errors.Is(err, gfp.ErrNoSquareRoot) {
			err = fmt.Errorf("%w: x=%s", ErrNotOnCurve, xe)
		}
		return Point{}, err
	}
	return Point{curve: c, x: xe, y: y}, nil
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.inf
}

// X returns a copy of the affine x coordinate. It must not be called on the
// point at infinity.
func (p Point) X() *big.Int {
	return p.x.BigInt()
}

// Y returns a copy of the affine y coordinate. It must not be called on the
// point at infinity.
func (p Point) Y() *big.Int {
	return p.y.BigInt()
}

// IsOnCurve verifies the curve equation for p. The point at infinity
// passes.
func (p Point) IsOnCurve() bool {
	if p.inf {
		return true
	}
	c := p.curve
	lhs := p.y.Mul(p.y)
	rhs := p.x.Mul(p.x).Mul(p.x).Add(c.A.Mul(p.x)).Add(c.B)
	return lhs.Equals(rhs)
}

// Equals reports whether two points are the same group element.
func (p Point) Equals(q Point) bool {
	if p.inf || q.inf {
		return p.inf && q.inf
	}
	return p.x.Equals(q.x) && p.y.Equals(q.y)
}

// Neg returns -p, the reflection of p over the x axis.
func (p Point) Neg() Point {
	if p.inf {
		return p
	}
	return Point{curve: p.curve, x: p.x, y: p.y.Neg()}
}

// Add performs the elliptic curve group addition.
func (p Point) Add(q Point) Point {
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	c := p.curve

	var slope gfp.Element
	if p.x.Equals(q.x) {
		if !p.y.Equals(q.y) || p.y.IsZero() {
			// A vertical line: q == -p.
			return c.Infinity()
		}
		// Doubling: λ = (3x² + a) / 2y. The denominator is nonzero here,
		// the division cannot fail.
		three := c.Field.Value(big.NewInt(3))
		two := c.Field.Value(big.NewInt(2))
		slope, _ = three.Mul(p.x).Mul(p.x).Add(c.A).Div(two.Mul(p.y))
	} else {
		slope, _ = p.y.Sub(q.y).Div(p.x.Sub(q.x))
	}

	x := slope.Mul(slope).Sub(p.x).Sub(q.x)
	y := slope.Mul(p.x.Sub(x)).Sub(p.y)
	return Point{curve: c, x: x, y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return p.Add(q.Neg())
}

// Mul performs scalar multiplication via double-and-add over the binary
// expansion of |k|. A negative k multiplies by |k| and negates the result.
// The scalar is used as-is, reduction modulo the group order is up to the
// caller.
func (p Point) Mul(k *big.Int) Point {
	scalar := new(big.Int).Abs(k)
	acc := p.curve.Infinity()
	shifter := p
	for i, bits := 0, scalar.BitLen(); i < bits; i++ {
		if scalar.Bit(i) == 1 {
			acc = acc.Add(shifter)
		}
		shifter = shifter.Add(shifter)
	}
	if k.Sign() < 0 {
		acc = acc.Neg()
	}
	return acc
}

// String implements the stringer interface.
func (p Point) String() string {
	if p.inf {
		return "(inf)"
	}
	return fmt.Sprintf("(%s,%s)", p.x, p.y)
}
