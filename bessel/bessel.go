// Package bessel evaluates the order-0 and order-1 Bessel functions of the
// first kind with the rational approximations of Numerical Recipes and
// locates the positive zeros of J0.
//
// The approximations are good to an absolute 5e-7 (J0) and 2e-7 (J1). The
// error peaks next to the |x| = 5 branch, where both functions jump by up to
// that amount, and J0(0) = 1 + 3e-9. FirstZerosJ0 does not inherit this error.
package bessel

import "math"

const branch = 5. // |x| below: direct rational fit; above: asymptotic amplitude/phase

// Tol bounds the absolute error of J0 and J1.
const Tol = 5e-7

// J0 returns the Bessel function of the first kind of order 0.
func J0(x float64) float64 {
	ax := math.Abs(x)
	if ax < branch {
		z := x * x
		num := 57568490574.0 + z*(-13362590354.0+z*(651619640.7+
			z*(-11214424.18+z*(77392.33017+z*(-184.9052456)))))
		den := 57568490411.0 + z*(1029532985.0+z*(9494680.718+
			z*(59272.64853+z*(267.8532712+z*1.0))))
		return num / den
	}
	y := 8. / ax
	y2 := y * y
	p := 1.0 + y2*(-0.1098628627e-2+y2*(0.2734510407e-4+
		y2*(-0.2073370639e-5+y2*0.2093887211e-6)))
	q := -0.1562499995e-1 + y2*(0.1430488765e-3+
		y2*(-0.6911147651e-5+y2*(0.7621095161e-6-
			y2*0.934935152e-7)))
	xx := ax - 0.785398164
	return math.Sqrt(0.636619772/ax) * (math.Cos(xx)*p - y*math.Sin(xx)*q)
}

// J1 returns the Bessel function of the first kind of order 1.
func J1(x float64) float64 {
	ax := math.Abs(x)
	if ax < branch {
		z := x * x
		num := x * (72362614232.0 + z*(-7895059235.0+z*(242396853.1+
			z*(-2972611.439+z*(15704.48260+z*(-30.16036606))))))
		den := 144725228442.0 + z*(2300535178.0+z*(18583304.74+
			z*(99447.43394+z*(376.9991397+z*1.0))))
		return num / den
	}
	y := 8. / ax
	y2 := y * y
	p := 1.0 + y2*(0.183105e-2+y2*(-0.3516396496e-4+
		y2*(0.2457520174e-5-y2*0.240337019e-6)))
	q := 0.04687499995 + y2*(-0.2002690873e-3+
		y2*(0.8449199096e-5+y2*(-0.88228987e-6+
			y2*0.105787412e-6)))
	xx := ax - 2.356194491
	v := math.Sqrt(0.636619772/ax) * (math.Cos(xx)*p - y*math.Sin(xx)*q)
	if x < 0. {
		return -v // odd
	}
	return v
}
