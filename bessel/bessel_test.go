package bessel

import (
	"math"
	"testing"
)

func TestAgainstStdlib(t *testing.T) {
	var e0, e1 float64
	for x := 0.; x <= 1e4; x += 0.005 {
		e0 = math.Max(e0, math.Abs(J0(x)-math.J0(x)))
		e1 = math.Max(e1, math.Abs(J1(x)-math.J1(x)))
	}
	if e0 > Tol || e1 > Tol {
		t.Fatalf("max error J0 %.3g, J1 %.3g, want <= %g", e0, e1, Tol)
	}
	// away from the branch the fit is much tighter
	for x := 20.; x <= 1e4; x += 0.37 {
		if d := math.Abs(J0(x) - math.J0(x)); d > 1e-8 {
			t.Fatalf("J0(%g) = %.12g, want %.12g (diff %.3g)", x, J0(x), math.J0(x), d)
		}
	}
}

func TestSymmetry(t *testing.T) {
	for _, x := range []float64{0.5, 3., 4.999, 5., 7.3, 120.} {
		if J0(-x) != J0(x) {
			t.Fatalf("J0 not even at %g", x)
		}
		if J1(-x) != -J1(x) {
			t.Fatalf("J1 not odd at %g", x)
		}
	}
	if math.Abs(J0(0.)-1.) > 1e-8 || J1(0.) != 0. {
		t.Fatalf("J0(0), J1(0) = %.12g, %g", J0(0.), J1(0.))
	}
}

func TestDerivativeIdentity(t *testing.T) {
	// J0'(x) = -J1(x)
	const h = 1e-4
	for x := 0.1; x <= 100.; x += 0.05 {
		if math.Abs(x-branch) <= h {
			continue
		}
		d := (J0(x+h) - J0(x-h)) / (2. * h)
		if math.Abs(d+J1(x)) > 1e-5 {
			t.Fatalf("J0'(%g) = %.9g, -J1 = %.9g", x, d, -J1(x))
		}
	}
}

func TestBranchContinuity(t *testing.T) {
	const eps = 1e-12
	if d := math.Abs(J0(branch-eps) - J0(branch+eps)); d > Tol {
		t.Fatalf("J0 jumps by %g at |x|=5", d)
	}
	if d := math.Abs(J1(branch-eps) - J1(branch+eps)); d > Tol {
		t.Fatalf("J1 jumps by %g at |x|=5", d)
	}
}
