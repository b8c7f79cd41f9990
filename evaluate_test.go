package gammadust

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// testInputs is a small but complete forward model: 20 modes, 8 proton
// energies, 2 photon energies and 2 gas samples on an nside=1 sky.
func testInputs(t *testing.T) Inputs {
	t.Helper()
	p := DefaultParameters()
	energies := grid.Logspace(1e9, 1e12, 8)
	egev := make([]float64, len(energies))
	for i, e := range energies {
		egev[i] = e / phys.EVPerGeV
	}
	xs, err := Tabulate(func(ep, eg float64) float64 {
		if eg >= ep {
			return 0.
		}
		return 1e-26 / (eg * math.Sqrt(ep))
	}, egev, []float64{1., 10.})
	if err != nil {
		t.Fatal(err)
	}

	shells := []float64{200., 1000., 3000.}
	pts, err := Sightlines(shells, 1, 12, nil, phys.SolarRadius)
	if err != nil {
		t.Fatal(err)
	}
	gas := grid.NewCube(2, len(shells), 12)
	for i := range gas.Data {
		gas.Data[i] = .1 + .01*float64(i%17)
	}
	widths := []float64{400. * phys.ParsecCM, 1200. * phys.ParsecCM, 2800. * phys.ParsecCM}

	return Inputs{
		Params:       p,
		Zeta:         zeros(t, 20),
		Energies:     energies,
		Radii:        grid.Linspace(0., p.R, 41),
		Heights:      grid.Linspace(0., p.L, 11),
		CrossSection: xs,
		Enhancement:  phys.NuclearEnhancement,
		Gas:          gas,
		Widths:       widths,
		Points:       pts,
	}
}

func TestPipelineGammaMap(t *testing.T) {
	pl, err := NewPipeline(testInputs(t), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	m, err := pl.GammaMap(YUK04())
	if err != nil {
		t.Fatal(err)
	}
	if m.Shape() != [3]int{2, 2, 12} {
		t.Fatalf("shape %v", m.Shape())
	}
	for i, v := range m.Data {
		if !(v > 0.) || math.IsInf(v, 0) {
			t.Fatalf("map[%d] = %g", i, v)
		}
	}
	// softer photons are more abundant
	for s := 0; s < 2; s++ {
		for p := 0; p < 12; p++ {
			if !(m.At(s, 0, p) > m.At(s, 1, p)) {
				t.Fatalf("sample %d pixel %d: %g at 1 GeV, %g at 10 GeV", s, p, m.At(s, 0, p), m.At(s, 1, p))
			}
		}
	}

	// the map scales with the source normalisation
	s2 := YUK04()
	s2.A *= 3.
	m3, err := pl.GammaMap(s2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Data {
		if math.Abs(m3.Data[i]-3.*m.Data[i]) > 1e-10*m3.Data[i] {
			t.Fatalf("map[%d]: %g vs 3 x %g", i, m3.Data[i], m.Data[i])
		}
	}
}

func TestPipelineStages(t *testing.T) {
	in := testInputs(t)
	pl, err := NewPipeline(in, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	q, err := pl.Coefficients(YUK04())
	if err != nil {
		t.Fatal(err)
	}
	if len(q) != len(in.Zeta) {
		t.Fatalf("%d coefficients", len(q))
	}
	flux, err := pl.Flux(q)
	if err != nil {
		t.Fatal(err)
	}
	em, err := pl.Emissivity(flux)
	if err != nil {
		t.Fatal(err)
	}
	if em.Shape() != [3]int{2, len(in.Radii), len(in.Heights)} {
		t.Fatalf("emissivity shape %v", em.Shape())
	}
	if pl.Projector() == nil || pl.Transport() == nil {
		t.Fatal("stage kernels missing")
	}
}

func TestPipelineLocal(t *testing.T) {
	in := testInputs(t)
	pl, err := NewPipeline(in, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	j, em, err := pl.Local(YUK04(), phys.SolarRadius, 0.)
	if err != nil {
		t.Fatal(err)
	}
	if len(j) != len(in.Energies) || len(em) != 2 {
		t.Fatalf("%d flux values, %d emissivities", len(j), len(em))
	}
	q, err := pl.Coefficients(YUK04())
	if err != nil {
		t.Fatal(err)
	}
	jall, err := SolveLocal(in.Params, in.Zeta, q, in.Energies, phys.SolarRadius, 0.)
	if err != nil {
		t.Fatal(err)
	}
	for e := range j {
		if want := jall[e] / (4. * math.Pi); math.Abs(j[e]-want) > 1e-12*want {
			t.Fatalf("E=%g: %g per sr, want %g", in.Energies[e], j[e], want)
		}
	}
	if !(em[0] > em[1]) || !(em[1] > 0.) {
		t.Fatalf("local emissivity %v", em)
	}
}

func TestPipelineErrors(t *testing.T) {
	in := testInputs(t)
	bad := in
	bad.CrossSection = nil
	if _, err := NewPipeline(bad, quietLogger()); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("no cross-section: %v", err)
	}
	bad = in
	bad.Widths = bad.Widths[:2]
	if _, err := NewPipeline(bad, quietLogger()); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("short widths: %v", err)
	}
	bad = in
	bad.Points = bad.Points[1:]
	if _, err := NewPipeline(bad, quietLogger()); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("short sightlines: %v", err)
	}
	bad = in
	bad.ProjectionPoints = 4001
	if _, err := NewPipeline(bad, quietLogger()); !errors.Is(err, ErrNumericDomain) {
		t.Fatalf("coarse projection: %v", err)
	}

	// without gas only the local stages are available
	bad = in
	bad.Gas = nil
	pl, err := NewPipeline(bad, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pl.GammaMap(YUK04()); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("map without gas: %v", err)
	}
}
