package gammadust

import (
	"math"
	"runtime"

	"github.com/DimitriosKantzas/gamma-dust/bessel"
	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/integrate"
)

// Projector expands radial profiles on the Fourier-Bessel basis
// J0(zeta_n r/R) of a disc of radius R with f(R) = 0.
type Projector struct {
	Zeta []float64 // ascending zeros of J0
	R    float64   // disc radius [pc]

	r    []float64 // uniform quadrature radii over [0, R]
	norm []float64 // 2/(R² J1(zeta_n)²)
}

// NewProjector prepares the quadrature for npts uniform radii over [0, R].
func NewProjector(zeta []float64, R float64, npts int) (*Projector, error) {
	const op = "NewProjector"
	if len(zeta) == 0 {
		return nil, shapeErr(op, "zeta", 1, 0)
	}
	if !(R > 0.) || math.IsInf(R, 0) {
		return nil, domainErr(op, "radius R = %g", R)
	}
	if npts < 2 {
		return nil, domainErr(op, "%d quadrature points", npts)
	}
	for i, z := range zeta {
		if !(z > 0.) || math.IsInf(z, 0) {
			return nil, domainErr(op, "zeta[%d] = %g", i, z)
		}
	}
	p := Projector{
		Zeta: zeta,
		R:    R,
		r:    grid.Linspace(0., R, npts),
		norm: make([]float64, len(zeta)),
	}
	for n, z := range zeta {
		j1 := bessel.J1(z)
		p.norm[n] = 2. / (R * R * j1 * j1)
	}
	return &p, nil
}

// Project returns the expansion coefficients q_n [pc⁻²] of f.
func (p *Projector) Project(f Profile) ([]float64, error) {
	qs, err := p.ProjectMany(f)
	if err != nil {
		return nil, err
	}
	return qs[0], nil
}

// ProjectMany projects several profiles in one pass over the Bessel kernel;
// qs[s][n] is coefficient n of profile s. Modes are independent and
// evaluated concurrently.
func (p *Projector) ProjectMany(fs ...Profile) ([][]float64, error) {
	const op = "Project"
	nm, np := len(p.Zeta), len(p.r)

	// r f(r) per profile
	rf := make([][]float64, len(fs))
	for s, f := range fs {
		rf[s] = make([]float64, np)
		for i, r := range p.r {
			v := f(r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, domainErr(op, "profile %d is not finite at r = %g pc", s, r)
			}
			rf[s][i] = r * v
		}
	}

	qs := make([][]float64, len(fs))
	for s := range qs {
		qs[s] = make([]float64, nm)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for n := 0; n < nm; n++ {
		g.Go(func() error {
			kr := p.Zeta[n] / p.R
			j0, y := make([]float64, np), make([]float64, np)
			for i, r := range p.r {
				j0[i] = bessel.J0(kr * r)
			}
			for s := range fs {
				for i := range y {
					y[i] = rf[s][i] * j0[i]
				}
				qs[s][n] = p.norm[n] * integrate.Trapezoidal(p.r, y)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return qs, nil
}

// Synthesize evaluates the series sum_n q_n J0(zeta_n r/R) at radii r,
// summing modes in ascending order.
func (p *Projector) Synthesize(q, r []float64) ([]float64, error) {
	if len(q) != len(p.Zeta) {
		return nil, shapeErr("Synthesize", "q", len(p.Zeta), len(q))
	}
	o := make([]float64, len(r))
	for j, rj := range r {
		s := 0.
		for n, z := range p.Zeta {
			s += q[n] * bessel.J0(z*rj/p.R)
		}
		o[j] = s
	}
	return o, nil
}

// ProjectCoefficients returns the Fourier-Bessel coefficients of profile
// over a halo of radius R [pc], by trapezoid quadrature on
// phys.ProjectionPoints uniform radii.
func ProjectCoefficients(profile Profile, zeta []float64, R float64) ([]float64, error) {
	p, err := NewProjector(zeta, R, phys.ProjectionPoints)
	if err != nil {
		return nil, err
	}
	return p.Project(profile)
}
