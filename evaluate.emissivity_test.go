package gammadust

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"gonum.org/v1/gonum/mat"
)

func constCube(n0, n1, n2 int, v float64) *grid.Cube {
	c := grid.NewCube(n0, n1, n2)
	for i := range c.Data {
		c.Data[i] = v
	}
	return c
}

func TestEmissivityConstant(t *testing.T) {
	egev := []float64{1., 2., 3., 4.}
	xs := mat.NewDense(4, 2, []float64{1, 1, 1, 1, 1, 1, 1, 1})
	em, err := IntegrateEmissivity(constCube(4, 3, 2, 1.), xs, egev, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if em.Shape() != [3]int{2, 3, 2} {
		t.Fatalf("shape %v", em.Shape())
	}
	for i, v := range em.Data {
		if math.Abs(v-3.6) > 1e-12 {
			t.Fatalf("emissivity[%d] = %g, want 3.6", i, v)
		}
	}
}

func TestEmissivityZeroCrossSection(t *testing.T) {
	egev := []float64{1., 10., 100.}
	em, err := IntegrateEmissivity(constCube(3, 4, 5, 7.), mat.NewDense(3, 2, nil), egev, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range em.Data {
		if v != 0. {
			t.Fatalf("emissivity[%d] = %g", i, v)
		}
	}
}

func TestEmissivityPowerLaw(t *testing.T) {
	// int_1^10 E dE on a fine grid
	egev := grid.Linspace(1., 10., 91)
	flux := grid.NewCube(len(egev), 1, 1)
	copy(flux.Data, egev)
	xs := mat.NewDense(len(egev), 1, nil)
	for i := range egev {
		xs.Set(i, 0, 1.)
	}
	em, err := IntegrateEmissivity(flux, xs, egev, 1.)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(em.Data[0]-49.5) > 1e-10 {
		t.Fatalf("integral %g, want 49.5", em.Data[0])
	}
}

func TestEmissivityErrors(t *testing.T) {
	egev := []float64{1., 2.}
	flux := constCube(2, 1, 1, 1.)
	if _, err := IntegrateEmissivity(constCube(3, 1, 1, 1.), mat.NewDense(2, 1, nil), egev, 1.); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("flux energy axis: %v", err)
	}
	if _, err := IntegrateEmissivity(flux, mat.NewDense(3, 1, nil), egev, 1.); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("cross-section rows: %v", err)
	}
	if _, err := IntegrateEmissivity(flux, mat.NewDense(2, 1, nil), egev, math.NaN()); !errors.Is(err, ErrNumericDomain) {
		t.Fatalf("NaN enhancement: %v", err)
	}
	for _, e := range [][]float64{{5., -3.}, {-1., 2.}, {0., 1.}, {2., 1.}, {1., math.Inf(1)}, {math.NaN(), 2.}} {
		em, err := IntegrateEmissivity(flux, mat.NewDense(2, 1, []float64{1., 1.}), e, 1.8)
		if !errors.Is(err, ErrNumericDomain) {
			t.Fatalf("energies %v: emissivity %v, error %v", e, em, err)
		}
	}
}

func TestCrossSectionTable(t *testing.T) {
	xs := func(ep, eg float64) float64 {
		if eg >= ep {
			return 0.
		}
		return 1e-27 / ep
	}
	ep, eg := []float64{1., 10., 100.}, []float64{5., 50.}
	m, err := Tabulate(xs, ep, eg)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := m.Dims(); r != 3 || c != 2 {
		t.Fatalf("dims %d x %d", r, c)
	}
	if m.At(0, 0) != 0. || math.Abs(m.At(2, 1)-1e-29) > 1e-40 {
		t.Fatalf("table %v", mat.Formatted(m))
	}

	fp := filepath.Join(t.TempDir(), "xs.npy")
	if err := SaveCrossSectionNPY(fp, m); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCrossSectionNPY(fp)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(got, m) {
		t.Fatalf("round trip\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(m))
	}

	if _, err := Tabulate(xs, nil, eg); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("no proton energies: %v", err)
	}
	nan := func(float64, float64) float64 { return math.NaN() }
	if _, err := Tabulate(nan, ep, eg); !errors.Is(err, ErrNumericDomain) {
		t.Fatalf("NaN cross-section: %v", err)
	}
}
