package common

import (
	"math"
	"strconv"
)

// Quad is a double-double floating point number: the unevaluated sum Hi + Lo with
// |Lo| <= ulp(Hi)/2. It carries roughly 32 significant decimal digits, enough to
// hold gigaparsec-scale coordinates with sub-meter resolution.
type Quad struct {
	Hi float64
	Lo float64
}

// Q builds a Quad from a float64.
func Q(v float64) Quad {
	return Quad{Hi: v}
}

// twoSum returns s, e with s = fl(a+b) and a+b = s+e exactly.
func twoSum(a, b float64) (float64, float64) {
	s := a + b
	bb := s - a
	e := (a - (s - bb)) + (b - bb)
	return s, e
}

// quickTwoSum requires |a| >= |b|.
func quickTwoSum(a, b float64) (float64, float64) {
	s := a + b
	e := b - (s - a)
	return s, e
}

// twoProd returns p, e with p = fl(a*b) and a*b = p+e exactly.
func twoProd(a, b float64) (float64, float64) {
	p := a * b
	e := math.FMA(a, b, -p)
	return p, e
}

// Add returns q + o.
func (q Quad) Add(o Quad) Quad {
	s, e := twoSum(q.Hi, o.Hi)
	t, f := twoSum(q.Lo, o.Lo)
	e += t
	s, e = quickTwoSum(s, e)
	e += f
	s, e = quickTwoSum(s, e)
	return Quad{Hi: s, Lo: e}
}

// AddFloat returns q + v.
func (q Quad) AddFloat(v float64) Quad {
	s, e := twoSum(q.Hi, v)
	e += q.Lo
	s, e = quickTwoSum(s, e)
	return Quad{Hi: s, Lo: e}
}

// Sub returns q - o.
func (q Quad) Sub(o Quad) Quad {
	return q.Add(o.Neg())
}

// Neg returns -q.
func (q Quad) Neg() Quad {
	return Quad{Hi: -q.Hi, Lo: -q.Lo}
}

// Mul returns q * o.
func (q Quad) Mul(o Quad) Quad {
	p, e := twoProd(q.Hi, o.Hi)
	e += q.Hi*o.Lo + q.Lo*o.Hi
	p, e = quickTwoSum(p, e)
	return Quad{Hi: p, Lo: e}
}

// MulFloat returns q * v.
func (q Quad) MulFloat(v float64) Quad {
	p, e := twoProd(q.Hi, v)
	e += q.Lo * v
	p, e = quickTwoSum(p, e)
	return Quad{Hi: p, Lo: e}
}

// DivFloat returns q / v.
func (q Quad) DivFloat(v float64) Quad {
	q1 := q.Hi / v
	p, e := twoProd(q1, v)
	r := q.Sub(Quad{Hi: p, Lo: e})
	q2 := r.Hi / v
	s, f := quickTwoSum(q1, q2)
	return Quad{Hi: s, Lo: f}
}

// Sqrt returns the square root of q using one Newton step on the float64 estimate.
func (q Quad) Sqrt() Quad {
	if q.Hi <= 0 {
		return Quad{Hi: math.Sqrt(q.Hi)}
	}
	x := math.Sqrt(q.Hi)
	p, e := twoProd(x, x)
	r := q.Sub(Quad{Hi: p, Lo: e})
	s, f := quickTwoSum(x, r.Hi/(2*x))
	return Quad{Hi: s, Lo: f}
}

// Float64 rounds q to the nearest float64.
func (q Quad) Float64() float64 {
	return q.Hi + q.Lo
}

// Cmp returns -1, 0 or +1 comparing q to o.
func (q Quad) Cmp(o Quad) int {
	switch {
	case q.Hi < o.Hi:
		return -1
	case q.Hi > o.Hi:
		return 1
	case q.Lo < o.Lo:
		return -1
	case q.Lo > o.Lo:
		return 1
	}
	return 0
}

// IsFinite reports whether both components are finite.
func (q Quad) IsFinite() bool {
	return !math.IsNaN(q.Hi) && !math.IsInf(q.Hi, 0) && !math.IsNaN(q.Lo) && !math.IsInf(q.Lo, 0)
}

func (q Quad) String() string {
	return strconv.FormatFloat(q.Float64(), 'g', -1, 64)
}
