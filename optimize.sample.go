package gammadust

import (
	"math"
	"runtime"
	"sort"

	"github.com/DimitriosKantzas/gamma-dust/opt"
	"golang.org/x/sync/errgroup"
)

// Candidate is one sampled source shape and its loss.
type Candidate struct {
	Shape Shape
	Loss  float64
}

// DefaultShapeRanges spans a factor of 3 in A about s, and B in [0, 4] and
// C in [0.5, 8].
func DefaultShapeRanges(s Shape) [3]opt.Range {
	a := math.Abs(s.A)
	if a == 0. {
		a = YUK04().A
	}
	return [3]opt.Range{
		{Lo: a / 3., Hi: 3. * a, Log: true},
		{Lo: 0., Hi: 4.},
		{Lo: .5, Hi: 8.},
	}
}

// Prescreen evaluates obj at n Latin-hypercube samples of the shape ranges
// and returns them by increasing loss; non-finite losses sort last. Losses
// are evaluated concurrently, so obj.Loss must be safe for concurrent use.
func Prescreen(obj Objective, n int, ranges [3]opt.Range, seed uint64) ([]Candidate, error) {
	plan, err := opt.LatinHypercube(n, ranges[:], seed)
	if err != nil {
		return nil, domainErr("Prescreen", "%v", err)
	}
	cs := make([]Candidate, n)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			s := ShapeFrom(plan.RawRowView(i))
			l, err := obj.Loss(s)
			if err != nil {
				return err
			}
			if !finite(l) {
				l = math.Inf(1)
			}
			cs[i] = Candidate{Shape: s, Loss: l}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Loss < cs[j].Loss })
	return cs, nil
}
