package gammadust

import (
	"fmt"
	"math"
	"runtime"

	"github.com/DimitriosKantzas/gamma-dust/bessel"
	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Transport is the steady-state diffusion-advection solution for cosmic-ray
// protons in a cylinder of radius R and half-height L, tabulated on an
// (energy, radius, height) grid. The flux for any set of source coefficients
// is one matrix product per energy.
type Transport struct {
	Params   Parameters
	Zeta     []float64
	Energies []float64 // kinetic energies [eV]
	Radii    []float64 // [pc]
	Heights  []float64 // |z| [pc]

	radial *mat.Dense   // [radius][mode] J0(zeta_n r/R)
	vert   []*mat.Dense // per energy: [mode][height] vertical kernel
	scale  []float64    // per energy: Q(E) x unit conversion to [GeV⁻¹ cm⁻² s⁻¹]
}

// TransportOption configures NewTransport.
type TransportOption func(*transportConfig)

type transportConfig struct {
	progress bool
	log      logrus.FieldLogger
}

// WithProgress shows a console progress bar while the kernels are built.
func WithProgress() TransportOption { return func(c *transportConfig) { c.progress = true } }

// WithLogger sets the logger used for timing output.
func WithLogger(log logrus.FieldLogger) TransportOption {
	return func(c *transportConfig) { c.log = log }
}

// NewTransport validates the inputs and tabulates the radial and vertical
// kernels. Energies are processed concurrently.
func NewTransport(params Parameters, zeta, energies, radii, heights []float64, opts ...TransportOption) (*Transport, error) {
	const op = "Transport"
	cfg := transportConfig{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(&cfg)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for _, a := range []struct {
		n string
		x []float64
	}{{"zeta", zeta}, {"energies", energies}, {"radii", radii}, {"heights", heights}} {
		if len(a.x) == 0 {
			return nil, shapeErr(op, a.n, 1, 0)
		}
		for i, v := range a.x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, domainErr(op, "%s[%d] is not finite", a.n, i)
			}
		}
	}
	for i, e := range energies {
		if e <= 0. {
			return nil, domainErr(op, "energy[%d] = %g eV", i, e)
		}
	}
	for i, r := range radii {
		if r < 0. {
			return nil, domainErr(op, "radius[%d] = %g pc", i, r)
		}
	}
	for i, z := range heights {
		if z < 0. || z > params.L {
			return nil, domainErr(op, "height[%d] = %g pc outside [0, %g]", i, z, params.L)
		}
	}

	tt := mmio.NewTimer()
	nm, nr, nz, ne := len(zeta), len(radii), len(heights), len(energies)
	t := Transport{
		Params:   params,
		Zeta:     zeta,
		Energies: energies,
		Radii:    radii,
		Heights:  heights,
		radial:   mat.NewDense(nr, nm, nil),
		vert:     make([]*mat.Dense, ne),
		scale:    make([]float64, ne),
	}
	for i, r := range radii {
		for n, z := range zeta {
			t.radial.Set(i, n, bessel.J0(z*r/params.R))
		}
	}

	var bar *uiprogress.Bar
	if cfg.progress {
		uiprogress.Start()
		bar = uiprogress.AddBar(ne).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf(" transport kernels %d/%d", b.Current(), ne)
		})
		defer uiprogress.Stop()
	}

	u0, L, R := params.advection(), params.L, params.R
	gam := injectionNorm(params.Alpha)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for e := range energies {
		g.Go(func() error {
			p, beta := momentum(energies[e])
			D := diffusion(p, beta)
			v := mat.NewDense(nm, nz, nil)
			for n, zn := range zeta {
				k := zn / R
				S := math.Sqrt(u0*u0/(D*D) + 4.*k*k)
				for j, z := range heights {
					v.Set(n, j, verticalKernel(S, u0, D, L, z))
				}
			}
			t.vert[e] = v
			t.scale[e] = injection(energies[e], params.Alpha, params.XiSNR, gam) * phys.FluxScale
			if bar != nil {
				bar.Incr()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cfg.log.WithFields(logrus.Fields{
		"modes":    nm,
		"energies": ne,
		"radii":    nr,
		"heights":  nz,
	}).Debugf("transport kernels built - %v", tt.Now())
	return &t, nil
}

// Flux returns the proton flux j(E, r, z) [GeV⁻¹ cm⁻² s⁻¹] sourced by the
// coefficients q [pc⁻²], clamped at zero.
func (t *Transport) Flux(q []float64) (*grid.Cube, error) {
	c, err := t.apply("Flux", q)
	if err != nil {
		return nil, err
	}
	for i, v := range c.Data {
		if v < 0. {
			c.Data[i] = 0.
		}
	}
	return c, nil
}

// Tangent propagates a perturbation dq of the coefficients to the flux
// produced by Flux. The map is linear except for the clamp, whose derivative
// is zero wherever primal (the clamped flux at q) is zero.
func (t *Transport) Tangent(dq []float64, primal *grid.Cube) (*grid.Cube, error) {
	if primal.N0 != len(t.Energies) || primal.N1 != len(t.Radii) || primal.N2 != len(t.Heights) {
		return nil, shapeErr("Tangent", "primal", len(t.Energies)*len(t.Radii)*len(t.Heights), len(primal.Data))
	}
	c, err := t.apply("Tangent", dq)
	if err != nil {
		return nil, err
	}
	for i, v := range primal.Data {
		if v == 0. {
			c.Data[i] = 0.
		}
	}
	return c, nil
}

// apply evaluates sum_n J0(zeta_n r/R) q_n V_n(E, z) scaled to flux units,
// one energy slab per task.
func (t *Transport) apply(op string, q []float64) (*grid.Cube, error) {
	nm, nr, nz, ne := len(t.Zeta), len(t.Radii), len(t.Heights), len(t.Energies)
	if len(q) != nm {
		return nil, shapeErr(op, "coefficients", nm, len(q))
	}
	for n, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, domainErr(op, "coefficient %d is not finite", n)
		}
	}

	c := grid.NewCube(ne, nr, nz)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for e := 0; e < ne; e++ {
		g.Go(func() error {
			a := mat.NewDense(nm, nz, nil)
			for n := 0; n < nm; n++ {
				for j := 0; j < nz; j++ {
					a.Set(n, j, q[n]*t.vert[e].At(n, j))
				}
			}
			slab := mat.NewDense(nr, nz, c.Slab(e))
			slab.Mul(t.radial, a)
			slab.Scale(t.scale[e], slab)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// SolveFlux returns the cosmic-ray proton flux [GeV⁻¹ cm⁻² s⁻¹] on the
// (energy [eV], radius [pc], height [pc]) grid for the source coefficients q.
func SolveFlux(params Parameters, zeta, q, energies, radii, heights []float64) (*grid.Cube, error) {
	t, err := NewTransport(params, zeta, energies, radii, heights)
	if err != nil {
		return nil, err
	}
	return t.Flux(q)
}

// SolveLocal returns the flux spectrum at a single point (r, z).
func SolveLocal(params Parameters, zeta, q, energies []float64, r, z float64) ([]float64, error) {
	c, err := SolveFlux(params, zeta, q, energies, []float64{r}, []float64{z})
	if err != nil {
		return nil, err
	}
	return c.Data, nil
}
