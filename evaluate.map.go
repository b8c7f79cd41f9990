package gammadust

import (
	"runtime"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BuildMap integrates the emissivity along every line of sight through each
// gas sample:
//
//	map[s,e,p] = sum_shell gas[s,shell,p] interp[e, shell*npix+p] width[shell]
//
// gas is (sample, shell, pixel) [cm⁻³], interp is (photon energy, cell)
// [GeV⁻¹ s⁻¹] in shell-major cell order and widths are the shell widths
// [cm]. The result is (sample, photon energy, pixel) [GeV⁻¹ cm⁻² s⁻¹].
func BuildMap(gas *grid.Cube, interp *mat.Dense, widths []float64) (*grid.Cube, error) {
	const op = "BuildMap"
	ns, nsh, np := gas.N0, gas.N1, gas.N2
	ng, nc := interp.Dims()
	if len(widths) != nsh {
		return nil, shapeErr(op, "shell widths", nsh, len(widths))
	}
	if nc != nsh*np {
		return nil, shapeErr(op, "interpolated cells", nsh*np, nc)
	}

	o := grid.NewCube(ns, ng, np)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for s := 0; s < ns; s++ {
		g.Go(func() error {
			tmp := make([]float64, np)
			gs := gas.Slab(s)
			for e := 0; e < ng; e++ {
				dst, row := o.Slab(s)[e*np:(e+1)*np], interp.RawRowView(e)
				for sh := 0; sh < nsh; sh++ {
					floats.MulTo(tmp, gs[sh*np:(sh+1)*np], row[sh*np:(sh+1)*np])
					floats.AddScaled(dst, widths[sh], tmp)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}
