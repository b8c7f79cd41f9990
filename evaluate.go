package gammadust

import (
	"math"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"github.com/maseology/mmio"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Inputs are the fixed ingredients of the forward model: everything except
// the source shape.
type Inputs struct {
	Params   Parameters
	Zeta     []float64 // ascending zeros of J0, one per mode
	Energies []float64 // proton kinetic energies [eV]
	Radii    []float64 // transport grid radii [pc], strictly ascending
	Heights  []float64 // transport grid heights [pc], strictly ascending within [0, L]

	CrossSection *mat.Dense // (proton energy, photon energy) [cm² GeV⁻¹]
	Enhancement  float64    // nuclear enhancement factor

	// line of sight; optional for flux and emissivity only
	Gas    *grid.Cube // (sample, shell, pixel) hydrogen density [cm⁻³]
	Widths []float64  // shell widths [cm]
	Points []Point    // (R, |z|) per cell, shell-major

	ProjectionPoints int // radial quadrature points, at least phys.ProjectionPoints; that if 0
}

// Pipeline evaluates source shape -> coefficients -> flux -> emissivity ->
// interpolated emissivity -> gamma-ray map, with the kernels of every stage
// prepared once.
type Pipeline struct {
	Inputs
	Log logrus.FieldLogger

	proj   *Projector
	trans  *Transport
	interp *Interpolator
	egev   []float64
}

// NewPipeline validates the inputs and builds the stage kernels.
func NewPipeline(in Inputs, log logrus.FieldLogger, opts ...TransportOption) (*Pipeline, error) {
	const op = "Pipeline"
	if log == nil {
		log = logrus.StandardLogger()
	}
	if in.ProjectionPoints == 0 {
		in.ProjectionPoints = phys.ProjectionPoints
	}
	if in.ProjectionPoints < phys.ProjectionPoints {
		return nil, domainErr(op, "%d projection points, need at least %d", in.ProjectionPoints, phys.ProjectionPoints)
	}
	if in.Enhancement == 0. {
		in.Enhancement = phys.NuclearEnhancement
	}
	if in.CrossSection == nil {
		return nil, shapeErr(op, "cross-section", len(in.Energies), 0)
	}
	if r, _ := in.CrossSection.Dims(); r != len(in.Energies) {
		return nil, shapeErr(op, "cross-section rows", len(in.Energies), r)
	}

	tt := mmio.NewTimer()
	p := Pipeline{Inputs: in, Log: log}
	var err error
	if p.proj, err = NewProjector(in.Zeta, in.Params.R, in.ProjectionPoints); err != nil {
		return nil, err
	}
	opts = append([]TransportOption{WithLogger(log)}, opts...)
	if p.trans, err = NewTransport(in.Params, in.Zeta, in.Energies, in.Radii, in.Heights, opts...); err != nil {
		return nil, err
	}
	if in.Gas != nil {
		if len(in.Points) != in.Gas.N1*in.Gas.N2 {
			return nil, shapeErr(op, "sightline cells", in.Gas.N1*in.Gas.N2, len(in.Points))
		}
		if len(in.Widths) != in.Gas.N1 {
			return nil, shapeErr(op, "shell widths", in.Gas.N1, len(in.Widths))
		}
		if p.interp, err = NewInterpolator(in.Radii, in.Heights, in.Points); err != nil {
			return nil, err
		}
	}
	p.egev = make([]float64, len(in.Energies))
	floats.ScaleTo(p.egev, 1./phys.EVPerGeV, in.Energies)

	log.WithFields(logrus.Fields{
		"modes":      len(in.Zeta),
		"energies":   len(in.Energies),
		"sightlines": len(in.Points),
	}).Infof("pipeline prepared - %v", tt.Now())
	return &p, nil
}

func (p *Pipeline) Projector() *Projector { return p.proj }

func (p *Pipeline) Transport() *Transport { return p.trans }

// Coefficients projects the source shape onto the Bessel modes.
func (p *Pipeline) Coefficients(s Shape) ([]float64, error) {
	return p.proj.Project(s.Profile())
}

// Flux solves the transport for coefficients q.
func (p *Pipeline) Flux(q []float64) (*grid.Cube, error) { return p.trans.Flux(q) }

// Emissivity integrates a flux cube against the cross-section table.
func (p *Pipeline) Emissivity(flux *grid.Cube) (*grid.Cube, error) {
	return IntegrateEmissivity(flux, p.CrossSection, p.egev, p.Enhancement)
}

// GammaMap runs the whole forward model for source shape s; the result is
// (sample, photon energy, pixel) [GeV⁻¹ cm⁻² s⁻¹].
func (p *Pipeline) GammaMap(s Shape) (*grid.Cube, error) {
	m, _, err := p.gammaMap(s, false)
	return m, err
}

// gammaMap optionally carries the derivative of the map with respect to
// each shape parameter through the same stages.
func (p *Pipeline) gammaMap(s Shape, tangents bool) (*grid.Cube, [3]*grid.Cube, error) {
	var dm [3]*grid.Cube
	if p.interp == nil {
		return nil, dm, shapeErr("GammaMap", "gas samples", 1, 0)
	}
	tt := mmio.NewTimer()

	fs := []Profile{s.Profile()}
	if tangents {
		fs = append(fs, s.Partial(0), s.Partial(1), s.Partial(2))
	}
	qs, err := p.proj.ProjectMany(fs...)
	if err != nil {
		return nil, dm, err
	}
	flux, err := p.trans.Flux(qs[0])
	if err != nil {
		return nil, dm, err
	}
	m, err := p.forward(flux)
	if err != nil {
		return nil, dm, err
	}
	if tangents {
		for k := range dm {
			df, err := p.trans.Tangent(qs[k+1], flux)
			if err != nil {
				return nil, dm, err
			}
			if dm[k], err = p.forward(df); err != nil {
				return nil, dm, err
			}
		}
	}
	p.Log.WithField("tangents", tangents).Debugf("gamma-ray map - %v", tt.Now())
	return m, dm, nil
}

// forward maps a flux cube to the gamma-ray map; every stage is linear.
func (p *Pipeline) forward(flux *grid.Cube) (*grid.Cube, error) {
	em, err := p.Emissivity(flux)
	if err != nil {
		return nil, err
	}
	ie, err := p.interp.Apply(em)
	if err != nil {
		return nil, err
	}
	return BuildMap(p.Gas, ie, p.Widths)
}

// Local returns the flux [GeV⁻¹ cm⁻² s⁻¹ sr⁻¹] and emissivity
// [GeV⁻¹ s⁻¹ sr⁻¹] per unit solid angle at galactocentric (r, z),
// assuming isotropy.
func (p *Pipeline) Local(s Shape, r, z float64) (flux, emissivity []float64, err error) {
	q, err := p.Coefficients(s)
	if err != nil {
		return nil, nil, err
	}
	jE, err := SolveLocal(p.Params, p.Zeta, q, p.Energies, r, z)
	if err != nil {
		return nil, nil, err
	}
	c, err := grid.CubeFrom(len(jE), 1, 1, jE)
	if err != nil {
		return nil, nil, err
	}
	em, err := p.Emissivity(c)
	if err != nil {
		return nil, nil, err
	}
	floats.Scale(1./(4.*math.Pi), jE)
	floats.Scale(1./(4.*math.Pi), em.Data)
	return jE, em.Data, nil
}
