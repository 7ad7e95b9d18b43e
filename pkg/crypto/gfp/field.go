// Package gfp implements arithmetic modulo a prime number. Elements carry a
// reference to their field, values are always kept canonical in [0, p).
// Arithmetic is arbitrary-precision, the field modulus can be anywhere from
// a toy prime to thousands of bits.
package gfp

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDivisionByZero is returned when inverting or dividing by the zero
// element.
var ErrDivisionByZero = errors.New("division by zero")

// ErrNoSquareRoot is returned by Sqrt for quadratic non-residues.
var ErrNoSquareRoot = errors.New("no square root")

// ErrUnsupportedModulus is returned by Sqrt when p mod 8 == 1: such moduli
// need Tonelli-Shanks which this package does not implement.
var ErrUnsupportedModulus = errors.New("sqrt not supported for p mod 8 == 1")

// Field represents the finite field of integers modulo a prime P.
type Field struct {
	p *big.Int
}

// Element is a value of a Field. The zero Element value is not usable,
// construct elements through Field methods.
type Element struct {
	field *Field
	v     *big.Int
}

// NewField creates a field modulo the given prime. The primality of p is
// the caller's responsibility.
func NewField(p *big.Int) *Field {
	return &Field{p: new(big.Int).Set(p)}
}

// P returns a copy of the field modulus.
func (f *Field) P() *big.Int {
	return new(big.Int).Set(f.p)
}

// Value converts an arbitrary integer into a canonical field element.
func (f *Field) Value(x *big.Int) Element {
	v := new(big.Int).Mod(x, f.p)
	return Element{field: f, v: v}
}

// FromBytes interprets b as a big-endian unsigned integer and reduces it
// into the field.
func (f *Field) FromBytes(b []byte) Element {
	return f.Value(new(big.Int).SetBytes(b))
}

// Zero returns the additive identity of the field.
func (f *Field) Zero() Element {
	return Element{field: f, v: new(big.Int)}
}

// One returns the multiplicative identity of the field.
func (f *Field) One() Element {
	return Element{field: f, v: big.NewInt(1)}
}

// samefield guards against mixing elements of different fields. Distinct
// Field instances with the same modulus are the same field: curve and
// engine constructors build their own instances.
func (f *Field) samefield(b Element) {
	if f != b.field && f.p.Cmp(b.field.p) != 0 {
		panic("gfp: mixing elements of different fields")
	}
}

// Field returns the field the element belongs to.
func (a Element) Field() *Field {
	return a.field
}

// BigInt returns a copy of the canonical integer value of a.
func (a Element) BigInt() *big.Int {
	return new(big.Int).Set(a.v)
}

// Bytes returns the value of a as a big-endian byte slice left-padded with
// zeroes to n bytes.
func (a Element) Bytes(n int) []byte {
	return a.v.FillBytes(make([]byte, n))
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool {
	return a.v.Sign() == 0
}

// Equals reports whether two elements of the same field hold the same
// canonical value.
func (a Element) Equals(b Element) bool {
	a.field.samefield(b)
	return a.v.Cmp(b.v) == 0
}

// Add returns a + b.
func (a Element) Add(b Element) Element {
	a.field.samefield(b)
	return a.field.Value(new(big.Int).Add(a.v, b.v))
}

// Sub returns a - b.
func (a Element) Sub(b Element) Element {
	a.field.samefield(b)
	return a.field.Value(new(big.Int).Sub(a.v, b.v))
}

// Neg returns -a.
func (a Element) Neg() Element {
	return a.field.Value(new(big.Int).Neg(a.v))
}

// Mul returns a * b.
func (a Element) Mul(b Element) Element {
	a.field.samefield(b)
	return a.field.Value(new(big.Int).Mul(a.v, b.v))
}

// Pow returns a raised to the given non-negative exponent.
func (a Element) Pow(e *big.Int) Element {
	if e.Sign() < 0 {
		panic("gfp: negative exponent")
	}
	return Element{field: a.field, v: new(big.Int).Exp(a.v, e, a.field.p)}
}

// Inverse returns the multiplicative inverse of a computed with the
// extended Euclidean algorithm.
func (a Element) Inverse() (Element, error) {
	if a.IsZero() {
		return Element{}, ErrDivisionByZero
	}
	gcd, c, _ := extendedGCD(a.v, a.field.p)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		// Can't happen for a prime modulus and a nonzero value, but a
		// composite "prime" sneaking in must not go unnoticed.
		return Element{}, fmt.Errorf("%w: gcd(%v, p) != 1", ErrDivisionByZero, a.v)
	}
	return a.field.Value(c), nil
}

// Div returns a / b.
func (a Element) Div(b Element) (Element, error) {
	a.field.samefield(b)
	inv, err := b.Inverse()
	if err != nil {
		return Element{}, err
	}
	return a.Mul(inv), nil
}

// IsSquare reports whether a is a quadratic residue, i.e. whether
// a^((p-1)/2) == 1.
func (a Element) IsSquare() bool {
	if a.IsZero() {
		return true
	}
	e := new(big.Int).Sub(a.field.p, big.NewInt(1))
	e.Rsh(e, 1)
	return a.Pow(e).Equals(a.field.One())
}

// Sqrt calculates the square root of a modulo p. There are two roots, the
// flag selects between them: the root with v mod 2 == flag is returned.
// Supported are p mod 8 in {3, 5, 7}; p mod 8 == 1 yields
// ErrUnsupportedModulus and a non-residue yields ErrNoSquareRoot.
func (a Element) Sqrt(flag uint) (Element, error) {
	if a.IsZero() {
		return a, nil
	}
	var (
		f   = a.field
		one = big.NewInt(1)
		res Element
	)
	switch new(big.Int).And(f.p, big.NewInt(7)).Int64() {
	case 3, 7:
		e := new(big.Int).Add(f.p, one)
		e.Rsh(e, 2) // (p+1)/4
		res = a.Pow(e)
	case 5:
		e := new(big.Int).Add(f.p, one)
		e.Rsh(e, 2) // (p+1)/4
		x := a.Pow(e)
		if x.Equals(f.One()) {
			e = new(big.Int).Add(f.p, big.NewInt(3))
			e.Rsh(e, 3) // (p+3)/8
			res = a.Pow(e)
		} else {
			e = new(big.Int).Sub(f.p, big.NewInt(5))
			e.Rsh(e, 3) // (p-5)/8
			four := f.Value(big.NewInt(4))
			two := f.Value(big.NewInt(2))
			res = four.Mul(a).Pow(e).Mul(two).Mul(a)
		}
	default:
		return Element{}, ErrUnsupportedModulus
	}
	if !res.Mul(res).Equals(a) {
		return Element{}, ErrNoSquareRoot
	}
	if res.v.Bit(0) == uint(flag&1) {
		return res, nil
	}
	return res.Neg(), nil
}

// SqrtFlag returns the parity bit that selects this element among the two
// square roots of its square.
func (a Element) SqrtFlag() uint {
	return a.v.Bit(0)
}

// String implements the stringer interface.
func (a Element) String() string {
	return fmt.Sprintf("0x%x", a.v)
}

// extendedGCD returns (gcd, c, d) such that a*c + b*d == gcd.
func extendedGCD(a, b *big.Int) (*big.Int, *big.Int, *big.Int) {
	var (
		prevx, x = big.NewInt(1), new(big.Int)
		prevy, y = new(big.Int), big.NewInt(1)
		aa, bb   = new(big.Int).Set(a), new(big.Int).Set(b)
	)
	for bb.Sign() != 0 {
		q, rem := new(big.Int).QuoRem(aa, bb, new(big.Int))

		x, prevx = new(big.Int).Sub(prevx, new(big.Int).Mul(q, x)), x
		y, prevy = new(big.Int).Sub(prevy, new(big.Int).Mul(q, y)), y
		aa, bb = bb, rem
	}
	return aa, prevx, prevy
}
