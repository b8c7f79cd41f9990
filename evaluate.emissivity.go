package gammadust

import (
	"math"
	"runtime"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IntegrateEmissivity folds the proton flux [GeV⁻¹ cm⁻² s⁻¹] on the
// (energy, radius, height) grid with the cross-section table (proton energy
// x photon energy) by trapezoid quadrature over energiesGeV, scaled by the
// nuclear enhancement factor. The result is the emissivity per hydrogen
// atom [GeV⁻¹ s⁻¹] on the (photon energy, radius, height) grid.
func IntegrateEmissivity(flux *grid.Cube, xs *mat.Dense, energiesGeV []float64, enhancement float64) (*grid.Cube, error) {
	const op = "IntegrateEmissivity"
	ne, ng := xs.Dims()
	if flux.N0 != len(energiesGeV) {
		return nil, shapeErr(op, "flux energy axis", len(energiesGeV), flux.N0)
	}
	if ne != len(energiesGeV) {
		return nil, shapeErr(op, "cross-section rows", len(energiesGeV), ne)
	}
	if !grid.Ascending(energiesGeV) || (len(energiesGeV) > 0 && energiesGeV[0] <= 0.) {
		return nil, domainErr(op, "energies %v not positive, finite and ascending", energiesGeV)
	}
	if math.IsNaN(enhancement) || math.IsInf(enhancement, 0) {
		return nil, domainErr(op, "enhancement factor %g", enhancement)
	}

	w := grid.TrapezoidWeights(energiesGeV)
	o := grid.NewCube(ng, flux.N1, flux.N2)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for j := 0; j < ng; j++ {
		g.Go(func() error {
			dst := o.Slab(j)
			for i := 0; i < ne; i++ {
				floats.AddScaled(dst, w[i]*xs.At(i, j), flux.Slab(i))
			}
			floats.Scale(enhancement, dst)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}
