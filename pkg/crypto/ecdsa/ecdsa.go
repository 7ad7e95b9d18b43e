// Package ecdsa implements ECDSA over a configurable curve together with the
// unconventional recoveries this module exists for: finding a public key
// from a signature, finding a private key from a signature with a known
// nonce and finding both the nonce and the private key from two signatures
// sharing an r value.
package ecdsa

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/txcrack/pkg/crypto/curve"
	"github.com/nspcc-dev/txcrack/pkg/crypto/gfp"
)

// ErrCrackMismatch is returned by Crack2 when the private keys recovered
// through the two signatures disagree: the input was not a nonce-reuse
// pair.
var ErrCrackMismatch = errors.New("recovered keys disagree, not a nonce-reuse pair")

// Engine is an ECDSA instance over a curve with generator G of order N.
// Scalars live in the field of integers modulo N, every scalar argument is
// reduced into it before use. Engines are immutable and safe for shared
// use.
type Engine struct {
	Curve *curve.Curve
	// GFn is the scalar field, the integers modulo the group order.
	GFn *gfp.Field
}

// NewEngine creates an ECDSA engine for the given curve.
func NewEngine(c *curve.Curve) *Engine {
	return &Engine{
		Curve: c,
		GFn:   gfp.NewField(c.N),
	}
}

// Secp256k1 returns an engine over the Bitcoin curve.
func Secp256k1() *Engine {
	return NewEngine(curve.Secp256k1())
}

// PublicKey calculates the public key point G·x for the private key x.
func (e *Engine) PublicKey(x *big.Int) curve.Point {
	return e.Curve.G.Mul(e.GFn.Value(x).BigInt())
}

// Sign signs the message digest m with private key x and nonce k:
// R = G·k, r = R.x mod n, s = (m + x·r) / k mod n. The caller provides k,
// no randomness is generated here.
func (e *Engine) Sign(m, x, k *big.Int) (r, s *big.Int, err error) {
	var (
		me = e.GFn.Value(m)
		xe = e.GFn.Value(x)
		ke = e.GFn.Value(k)
	)

	R := e.Curve.G.Mul(ke.BigInt())
	if R.IsInfinity() {
		return nil, nil, fmt.Errorf("sign: %w", gfp.ErrDivisionByZero)
	}

	re := e.GFn.Value(R.X())
	se, err := me.Add(xe.Mul(re)).Div(ke)
	if err != nil {
		return nil, nil, fmt.Errorf("sign: %w", err)
	}
	return re.BigInt(), se.BigInt(), nil
}

// Verify checks the signature (r, s) over the digest m against the public
// key Y: the x coordinate of G·(m/s) + Y·(r/s) must equal r mod n.
func (e *Engine) Verify(m *big.Int, pub curve.Point, r, s *big.Int) bool {
	var (
		me = e.GFn.Value(m)
		re = e.GFn.Value(r)
		se = e.GFn.Value(s)
	)
	u1, err := me.Div(se)
	if err != nil {
		return false
	}
	u2, err := re.Div(se)
	if err != nil {
		return false
	}
	R := e.Curve.G.Mul(u1.BigInt()).Add(pub.Mul(u2.BigInt()))
	if R.IsInfinity() {
		return false
	}
	return e.GFn.Value(R.X()).Equals(re)
}

// FindPK recovers a candidate public key from a signature over a known
// digest: Y = R·(s/r) - G·(m/r) where R is the decompression of r on the
// curve. Note that r is interpreted as an x coordinate in the base field,
// not the scalar field. Two candidates exist per (r, s), selected by flag.
func (e *Engine) FindPK(m, r, s *big.Int, flag uint) (curve.Point, error) {
	R, err := e.Curve.Decompress(r, flag)
	if err != nil {
		return curve.Point{}, err
	}
	var (
		me = e.GFn.Value(m)
		re = e.GFn.Value(r)
		se = e.GFn.Value(s)
	)
	u1, err := se.Div(re)
	if err != nil {
		return curve.Point{}, err
	}
	u2, err := me.Div(re)
	if err != nil {
		return curve.Point{}, err
	}
	return R.Mul(u1.BigInt()).Sub(e.Curve.G.Mul(u2.BigInt())), nil
}

// FindPK2 recovers the public key from two different signatures over the
// same message: Y = (R1·s1 - R2·s2) / (r1 - r2).
func (e *Engine) FindPK2(r1, s1, r2, s2 *big.Int, flag1, flag2 uint) (curve.Point, error) {
	R1, err := e.Curve.Decompress(r1, flag1)
	if err != nil {
		return curve.Point{}, err
	}
	R2, err := e.Curve.Decompress(r2, flag2)
	if err != nil {
		return curve.Point{}, err
	}
	rdiff, err := e.GFn.Value(r1).Sub(e.GFn.Value(r2)).Inverse()
	if err != nil {
		return curve.Point{}, err
	}
	sum := R1.Mul(e.GFn.Value(s1).BigInt()).Sub(R2.Mul(e.GFn.Value(s2).BigInt()))
	return sum.Mul(rdiff.BigInt()), nil
}

// Crack1 recovers the private key from a single signature with a known
// nonce: x = (s·k - m) / r mod n.
func (e *Engine) Crack1(r, s, m, k *big.Int) (*big.Int, error) {
	var (
		me = e.GFn.Value(m)
		re = e.GFn.Value(r)
		se = e.GFn.Value(s)
		ke = e.GFn.Value(k)
	)
	x, err := se.Mul(ke).Sub(me).Div(re)
	if err != nil {
		return nil, fmt.Errorf("crack1: %w", err)
	}
	return x.BigInt(), nil
}

// Crack2 recovers the nonce and the private key from two signatures sharing
// the same r:
//
//	s1 = (m1 + x·r)/k
//	s2 = (m2 + x·r)/k
//	=> k = (m1 - m2) / (s1 - s2), x = (s1·k - m1)/r
//
// The key is recovered through both signatures and the results are
// cross-checked, a mismatch surfaces as ErrCrackMismatch.
func (e *Engine) Crack2(r, s1, s2, m1, m2 *big.Int) (k, x *big.Int, err error) {
	sdelta := e.GFn.Value(s1).Sub(e.GFn.Value(s2))
	mdelta := e.GFn.Value(m1).Sub(e.GFn.Value(m2))

	ke, err := mdelta.Div(sdelta)
	if err != nil {
		return nil, nil, fmt.Errorf("crack2: %w", err)
	}
	k = ke.BigInt()
	x1, err := e.Crack1(r, s1, m1, k)
	if err != nil {
		return nil, nil, err
	}
	x2, err := e.Crack1(r, s2, m2, k)
	if err != nil {
		return nil, nil, err
	}
	if x1.Cmp(x2) != 0 {
		return nil, nil, fmt.Errorf("%w: %x != %x", ErrCrackMismatch, x1, x2)
	}
	return k, x1, nil
}

// FindK recovers the nonce used to create a signature given the private
// key: k = (m + x·r) / s mod n.
func (e *Engine) FindK(m, x, r, s *big.Int) (*big.Int, error) {
	var (
		me = e.GFn.Value(m)
		xe = e.GFn.Value(x)
		re = e.GFn.Value(r)
		se = e.GFn.Value(s)
	)
	k, err := me.Add(xe.Mul(re)).Div(se)
	if err != nil {
		return nil, fmt.Errorf("findk: %w", err)
	}
	return k.BigInt(), nil
}
