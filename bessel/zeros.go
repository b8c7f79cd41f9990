package bessel

import (
	"fmt"
	"math"
)

const maxBisect = 200

// FirstZerosJ0 returns the first n positive zeros of J0 in ascending order,
// accurate to float64. The k-th root is bracketed around McMahon's estimate
// (k-1/4)pi, where J0 changes sign exactly once, bisected on the exact J0 of
// the math package and polished with a Newton step (J0' = -J1).
func FirstZerosJ0(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("FirstZerosJ0: n must be positive, got %d", n)
	}
	zs := make([]float64, n)
	for k := 1; k <= n; k++ {
		b := (float64(k) - .25) * math.Pi
		lo, hi := b-.5, b+.5
		z, err := bisect(math.J0, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("FirstZerosJ0: root %d: %v", k, err)
		}
		if zn := z + math.J0(z)/math.J1(z); zn > lo && zn < hi {
			z = zn
		}
		if k > 1 && z <= zs[k-2] {
			return nil, fmt.Errorf("FirstZerosJ0: root %d (%g) not above root %d (%g)", k, z, k-1, zs[k-2])
		}
		zs[k-1] = z
	}
	return zs, nil
}

func bisect(f func(float64) float64, lo, hi float64) (float64, error) {
	flo, fhi := f(lo), f(hi)
	if flo == 0. {
		return lo, nil
	}
	if fhi == 0. {
		return hi, nil
	}
	if math.Signbit(flo) == math.Signbit(fhi) {
		return 0., fmt.Errorf("no sign change in [%g, %g]", lo, hi)
	}
	for i := 0; i < maxBisect; i++ {
		m := .5 * (lo + hi)
		if m <= lo || m >= hi {
			break // interval exhausted at float64 resolution
		}
		fm := f(m)
		if fm == 0. {
			return m, nil
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = m, fm
		} else {
			hi = m
		}
	}
	return .5 * (lo + hi), nil
}
