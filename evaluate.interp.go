package gammadust

import (
	"math"
	"runtime"
	"sort"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Point is a position in the galactic cylinder: galactocentric radius R and
// height Z = |z| [pc].
type Point struct{ R, Z float64 }

const interpChunk = 1 << 14 // points per task

// Interpolator holds the bilinear stencil of every query point on a fixed
// (radius, height) grid, so that many fields on that grid can be sampled at
// the same points.
type Interpolator struct {
	nr, nz int
	st     []stencil
}

type stencil struct {
	k int        // flat index ir*nz+iz of the lower corner; -1 outside the grid
	w [4]float64 // weights of (ir,iz), (ir,iz+1), (ir+1,iz), (ir+1,iz+1)
}

// NewInterpolator locates points on the grid spanned by the strictly
// ascending axes rAxis and zAxis. Points outside the axis bounds on either
// side, or with non-finite coordinates, are sampled as 0.
func NewInterpolator(rAxis, zAxis []float64, points []Point) (*Interpolator, error) {
	const op = "Interpolator"
	if len(rAxis) < 2 {
		return nil, shapeErr(op, "radius axis", 2, len(rAxis))
	}
	if len(zAxis) < 2 {
		return nil, shapeErr(op, "height axis", 2, len(zAxis))
	}
	if !grid.Ascending(rAxis) {
		return nil, domainErr(op, "radius axis is not strictly ascending")
	}
	if !grid.Ascending(zAxis) {
		return nil, domainErr(op, "height axis is not strictly ascending")
	}

	ip := Interpolator{nr: len(rAxis), nz: len(zAxis), st: make([]stencil, len(points))}
	for i, p := range points {
		ir, tr, okr := bracket(rAxis, p.R)
		iz, tz, okz := bracket(zAxis, p.Z)
		if !okr || !okz {
			ip.st[i].k = -1
			continue
		}
		ip.st[i] = stencil{
			k: ir*ip.nz + iz,
			w: [4]float64{(1. - tr) * (1. - tz), (1. - tr) * tz, tr * (1. - tz), tr * tz},
		}
	}
	return &ip, nil
}

// bracket returns the cell i with a[i] <= v <= a[i+1] and the fractional
// position of v in it.
func bracket(a []float64, v float64) (int, float64, bool) {
	n := len(a)
	if math.IsNaN(v) || v < a[0] || v > a[n-1] {
		return 0, 0., false
	}
	i := sort.SearchFloat64s(a, v) - 1
	if i < 0 {
		i = 0
	}
	return i, (v - a[i]) / (a[i+1] - a[i]), true
}

// Apply samples every photon-energy slice of field (photon energy x radius
// x height) at the points; rows of the result are photon energies, columns
// points.
func (ip *Interpolator) Apply(field *grid.Cube) (*mat.Dense, error) {
	const op = "Interpolate"
	if field.N1 != ip.nr {
		return nil, shapeErr(op, "radius axis", ip.nr, field.N1)
	}
	if field.N2 != ip.nz {
		return nil, shapeErr(op, "height axis", ip.nz, field.N2)
	}
	if field.N0 == 0 {
		return nil, shapeErr(op, "photon energies", 1, 0)
	}
	if len(ip.st) == 0 {
		return nil, shapeErr(op, "points", 1, 0)
	}

	o := mat.NewDense(field.N0, len(ip.st), nil)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for e := 0; e < field.N0; e++ {
		src, dst := field.Slab(e), o.RawRowView(e)
		for c0 := 0; c0 < len(ip.st); c0 += interpChunk {
			g.Go(func() error {
				c1 := min(c0+interpChunk, len(ip.st))
				for i := c0; i < c1; i++ {
					s := &ip.st[i]
					if s.k < 0 {
						continue
					}
					dst[i] = s.w[0]*src[s.k] + s.w[1]*src[s.k+1] + s.w[2]*src[s.k+ip.nz] + s.w[3]*src[s.k+ip.nz+1]
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}

// InterpolateToPoints bilinearly samples field (photon energy x radius x
// height) at points.
func InterpolateToPoints(field *grid.Cube, rAxis, zAxis []float64, points []Point) (*mat.Dense, error) {
	ip, err := NewInterpolator(rAxis, zAxis, points)
	if err != nil {
		return nil, err
	}
	return ip.Apply(field)
}
