package healpix

import (
	"math"
	"testing"
)

func TestBasePixels(t *testing.T) {
	for p := 0; p < 12; p++ {
		th, ph := Pix2AngNest(1, p)
		z := math.Cos(th)
		var want float64
		switch {
		case p < 4:
			want = 2. / 3.
		case p < 8:
			want = 0.
		default:
			want = -2. / 3.
		}
		if math.Abs(z-want) > 1e-12 {
			t.Fatalf("pixel %d: z = %g, want %g", p, z, want)
		}
		wphi := math.Pi / 4. * float64(2*(p%4)+1)
		if p >= 4 && p < 8 {
			wphi = math.Pi / 2. * float64(p%4)
		}
		if math.Abs(ph-wphi) > 1e-12 {
			t.Fatalf("pixel %d: phi = %g, want %g", p, ph, wphi)
		}
	}
}

func TestEqualAreaSphere(t *testing.T) {
	for _, ns := range []int{1, 2, 4, 16} {
		np := Npix(ns)
		var sx, sy, sz float64
		seen := make(map[[2]int64]bool, np)
		for p := 0; p < np; p++ {
			th, ph := Pix2AngNest(ns, p)
			if th < 0. || th > math.Pi || ph < 0. || ph >= 2.*math.Pi {
				t.Fatalf("nside %d pixel %d: (%g, %g) out of range", ns, p, th, ph)
			}
			sx += math.Sin(th) * math.Cos(ph)
			sy += math.Sin(th) * math.Sin(ph)
			sz += math.Cos(th)
			k := [2]int64{int64(math.Round(th * 1e9)), int64(math.Round(ph * 1e9))}
			if seen[k] {
				t.Fatalf("nside %d pixel %d: duplicate centre", ns, p)
			}
			seen[k] = true
		}
		if math.Abs(sx) > 1e-9 || math.Abs(sy) > 1e-9 || math.Abs(sz) > 1e-9 {
			t.Fatalf("nside %d: centres not balanced (%g, %g, %g)", ns, sx, sy, sz)
		}
	}
}

func TestNestedHierarchy(t *testing.T) {
	// the four children of a pixel surround its centre
	const ns = 8
	for p := 0; p < Npix(ns); p += 37 {
		th, ph := Pix2AngNest(ns, p)
		px := [3]float64{math.Sin(th) * math.Cos(ph), math.Sin(th) * math.Sin(ph), math.Cos(th)}
		var c [3]float64
		for k := 0; k < 4; k++ {
			tc, pc := Pix2AngNest(2*ns, 4*p+k)
			c[0] += math.Sin(tc) * math.Cos(pc)
			c[1] += math.Sin(tc) * math.Sin(pc)
			c[2] += math.Cos(tc)
		}
		n := math.Sqrt(c[0]*c[0] + c[1]*c[1] + c[2]*c[2])
		dot := (c[0]*px[0] + c[1]*px[1] + c[2]*px[2]) / n
		if dot < math.Cos(.5*math.Sqrt(4.*math.Pi/float64(Npix(ns)))) {
			t.Fatalf("pixel %d: children centroid too far from parent (cos=%g)", p, dot)
		}
	}
}

func TestNside(t *testing.T) {
	if n, err := NsideFromNpix(12 * 64 * 64); err != nil || n != 64 {
		t.Fatalf("NsideFromNpix = %d, %v", n, err)
	}
	if _, err := NsideFromNpix(100); err == nil {
		t.Fatal("expected error for 100 pixels")
	}
}
