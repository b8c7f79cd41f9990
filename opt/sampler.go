package opt

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/maseology/mmaths"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Range bounds one parameter of the sample space. Log ranges are sampled
// uniformly in the logarithm.
type Range struct {
	Lo  float64 `yaml:"lo"`
	Hi  float64 `yaml:"hi"`
	Log bool    `yaml:"log"`
}

func (r Range) Validate() error {
	if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) || math.IsInf(r.Lo, 0) || math.IsInf(r.Hi, 0) {
		return fmt.Errorf("opt.Range: non-finite bounds [%g, %g]", r.Lo, r.Hi)
	}
	if r.Hi < r.Lo {
		return fmt.Errorf("opt.Range: upper bound %g below lower bound %g", r.Hi, r.Lo)
	}
	if r.Log && r.Lo <= 0. {
		return fmt.Errorf("opt.Range: log range needs a positive lower bound, got %g", r.Lo)
	}
	return nil
}

// Transform maps u in [0, 1] onto a validated range.
func (r Range) Transform(u float64) float64 {
	if r.Log {
		return mmaths.LogLinearTransform(r.Lo, r.Hi, u)
	}
	return mmaths.LinearTransform(r.Lo, r.Hi, u)
}

// LatinHypercube draws n points of the space spanned by ranges, one in every
// stratum of each axis. Rows are samples, columns parameters. The plan is
// reproducible for a given seed.
func LatinHypercube(n int, ranges []Range, seed uint64) (*mat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("opt.LatinHypercube: %d samples", n)
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("opt.LatinHypercube: no parameters")
	}
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	u := mat.NewDense(n, len(ranges), nil)
	samplemv.LatinHypercube{
		Q:   distmv.NewUnitUniform(len(ranges), nil),
		Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}.Sample(u)
	for i := 0; i < n; i++ {
		row := u.RawRowView(i)
		for j, r := range ranges {
			row[j] = r.Transform(row[j])
		}
	}
	return u, nil
}
