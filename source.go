package gammadust

import (
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"gonum.org/v1/gonum/num/dual"
)

// Profile is a source surface density [pc⁻²] as a function of galactocentric
// radius [pc]. It must return exactly 0 beyond its cutoff.
type Profile func(r float64) float64

// Shape parametrises the source surface density
//
//	f(r) = A ((r+0.55)/9.05)^B exp(-C (r-8.5)/9.05),  r [kpc] < 15
//
// and 0 beyond the cutoff.
type Shape struct {
	A float64 `yaml:"A"`
	B float64 `yaml:"B"`
	C float64 `yaml:"C"`
}

// YUK04 is the supernova-remnant distribution of Yusifov & Kucuk (2004).
func YUK04() Shape {
	return Shape{A: 1. / phys.YUK04Norm, B: phys.YUK04B, C: phys.YUK04C}
}

func (s Shape) Vec() []float64 { return []float64{s.A, s.B, s.C} }

func ShapeFrom(v []float64) Shape { return Shape{A: v[0], B: v[1], C: v[2]} }

// Profile returns the surface density as a Profile.
func (s Shape) Profile() Profile {
	return func(r float64) float64 { return s.eval(r, -1).Real }
}

// Partial returns the derivative of the surface density with respect to
// parameter k (0: A, 1: B, 2: C) as a Profile.
func (s Shape) Partial(k int) Profile {
	return func(r float64) float64 { return s.eval(r, k).Emag }
}

// eval evaluates the density in dual numbers seeded on parameter k; k < 0
// carries no tangent.
func (s Shape) eval(r float64, k int) dual.Number {
	rk := r / phys.PcPerKpc
	if rk >= phys.SourceCutoff {
		return dual.Number{}
	}
	var seed [3]float64
	if k >= 0 {
		seed[k] = 1.
	}
	a := dual.Number{Real: s.A, Emag: seed[0]}
	b := dual.Number{Real: s.B, Emag: seed[1]}
	c := dual.Number{Real: s.C, Emag: seed[2]}

	x := dual.Number{Real: (rk + .55) / 9.05}
	y := (rk - 8.5) / 9.05
	return dual.Mul(a, dual.Mul(dual.Pow(x, b), dual.Exp(dual.Scale(-y, c))))
}
