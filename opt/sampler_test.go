package opt

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTransform(t *testing.T) {
	lin := Range{Lo: -1., Hi: 3.}
	if lin.Transform(0.) != -1. || lin.Transform(.5) != 1. || lin.Transform(1.) != 3. {
		t.Fatalf("linear %g %g %g", lin.Transform(0.), lin.Transform(.5), lin.Transform(1.))
	}
	lg := Range{Lo: 1e-10, Hi: 1e-8, Log: true}
	if math.Abs(lg.Transform(.5)-1e-9) > 1e-21 {
		t.Fatalf("log midpoint %g", lg.Transform(.5))
	}
}

func TestLatinHypercubeStrata(t *testing.T) {
	const n = 10
	ranges := []Range{{Lo: 0., Hi: 1.}, {Lo: 0., Hi: 10.}, {Lo: 1., Hi: 1e10, Log: true}}
	s, err := LatinHypercube(n, ranges, 7)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := s.Dims(); r != n || c != 3 {
		t.Fatalf("dims %d x %d", r, c)
	}
	for j, rg := range ranges {
		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			v := s.At(i, j)
			u := (v - rg.Lo) / (rg.Hi - rg.Lo)
			if rg.Log {
				u = math.Log(v/rg.Lo) / math.Log(rg.Hi/rg.Lo)
			}
			k := int(u * n)
			if k < 0 || k >= n || seen[k] {
				t.Fatalf("parameter %d: sample %g in stratum %d (repeated or outside)", j, v, k)
			}
			seen[k] = true
		}
	}
}

func TestLatinHypercubeSeed(t *testing.T) {
	ranges := []Range{{Lo: 0., Hi: 1.}, {Lo: 2., Hi: 3.}}
	a, err := LatinHypercube(20, ranges, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := LatinHypercube(20, ranges, 42)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(a, b) {
		t.Fatal("same seed, different plans")
	}
	c, err := LatinHypercube(20, ranges, 43)
	if err != nil {
		t.Fatal(err)
	}
	if mat.Equal(a, c) {
		t.Fatal("different seeds, same plan")
	}
}

func TestLatinHypercubeErrors(t *testing.T) {
	for _, c := range []struct {
		n      int
		ranges []Range
	}{
		{0, []Range{{Lo: 0., Hi: 1.}}},
		{5, nil},
		{5, []Range{{Lo: 2., Hi: 1.}}},
		{5, []Range{{Lo: 0., Hi: 1., Log: true}}},
		{5, []Range{{Lo: math.NaN(), Hi: 1.}}},
	} {
		if _, err := LatinHypercube(c.n, c.ranges, 1); err == nil {
			t.Errorf("n=%d ranges=%v: expected an error", c.n, c.ranges)
		}
	}
}
