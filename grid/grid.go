package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Definition describes a 1D sampling axis: N points from Lo to Hi inclusive,
// linearly or logarithmically spaced.
type Definition struct {
	Lo, Hi float64
	N      int
	Log    bool
}

// Values builds the axis.
func (d Definition) Values() ([]float64, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.Log {
		return Logspace(d.Lo, d.Hi, d.N), nil
	}
	return Linspace(d.Lo, d.Hi, d.N), nil
}

func (d Definition) check() error {
	if d.N < 1 {
		return fmt.Errorf("grid definition: %d points", d.N)
	}
	if math.IsNaN(d.Lo) || math.IsNaN(d.Hi) || math.IsInf(d.Lo, 0) || math.IsInf(d.Hi, 0) {
		return fmt.Errorf("grid definition: non-finite bounds [%g, %g]", d.Lo, d.Hi)
	}
	if d.N > 1 && d.Hi <= d.Lo {
		return fmt.Errorf("grid definition: upper bound %g not above lower bound %g", d.Hi, d.Lo)
	}
	if d.Log && d.Lo <= 0. {
		return fmt.Errorf("grid definition: log axis needs a positive lower bound, got %g", d.Lo)
	}
	return nil
}

func (d Definition) String() string {
	s := fmt.Sprintf("%g:%g:%d", d.Lo, d.Hi, d.N)
	if d.Log {
		s += ":log"
	}
	return s
}

// ParseDefinition reads an axis written as "lo:hi:n" or "lo:hi:n:log".
func ParseDefinition(s string) (Definition, error) {
	a, stErr := strings.Split(strings.TrimSpace(s), ":"), make([]string, 0)
	if len(a) < 3 || len(a) > 4 {
		return Definition{}, fmt.Errorf("ParseDefinition: '%s' is not lo:hi:n[:log]", s)
	}
	errfunc := func(v string, err error) {
		stErr = append(stErr, fmt.Sprintf("failed to read '%v': %v", v, err))
	}

	lo, err := strconv.ParseFloat(a[0], 64)
	if err != nil {
		errfunc("lo", err)
	}
	hi, err := strconv.ParseFloat(a[1], 64)
	if err != nil {
		errfunc("hi", err)
	}
	n, err := strconv.ParseInt(a[2], 10, 32)
	if err != nil {
		errfunc("n", err)
	}
	lg := false
	if len(a) == 4 {
		switch strings.ToLower(a[3]) {
		case "log":
			lg = true
		case "lin":
		default:
			stErr = append(stErr, fmt.Sprintf("unknown spacing '%s'", a[3]))
		}
	}
	if len(stErr) > 0 {
		return Definition{}, fmt.Errorf("ParseDefinition '%s': %s", s, strings.Join(stErr, "; "))
	}

	d := Definition{Lo: lo, Hi: hi, N: int(n), Log: lg}
	if err := d.check(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// MarshalText and UnmarshalText let definitions appear as scalars in config files.
func (d Definition) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Definition) UnmarshalText(b []byte) error {
	dd, err := ParseDefinition(string(b))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}

// Linspace returns n points evenly spaced over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Logspace returns n points evenly spaced in log over [lo, hi], lo > 0.
func Logspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.LogSpan(make([]float64, n), lo, hi)
}

// Diff returns the n-1 forward differences of x.
func Diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	for i := range d {
		d[i] = x[i+1] - x[i]
	}
	return d
}

// Ascending reports whether x is strictly increasing and finite.
func Ascending(x []float64) bool {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		if i > 0 && v <= x[i-1] {
			return false
		}
	}
	return true
}

// TrapezoidWeights returns w such that sum_i w_i f(x_i) is the trapezoid
// rule over the sampled axis x.
func TrapezoidWeights(x []float64) []float64 {
	w := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		h := .5 * (x[i] - x[i-1])
		w[i-1] += h
		w[i] += h
	}
	return w
}
