package gas

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"github.com/sirupsen/logrus"
)

// sample returns 2 samples x 3 shells x 12 pixels with distinguishable values.
func sample() *Density {
	hi, h2 := grid.NewCube(2, 3, 12), grid.NewCube(2, 3, 12)
	for s := 0; s < 2; s++ {
		for sh := 0; sh < 3; sh++ {
			for p := 0; p < 12; p++ {
				hi.Set(s, sh, p, float64(100*s+10*sh)+float64(p)/100.)
				h2.Set(s, sh, p, .5*float64(s+sh+p))
			}
		}
	}
	return &Density{
		Edges:   []float64{0., .5, 1.5, 3.},
		Centres: []float64{.25, 1., 2.25},
		HI:      hi,
		H2:      h2,
	}
}

func TestDerived(t *testing.T) {
	d := sample()
	if err := d.Validate(); err != nil {
		t.Fatal(err)
	}
	hi := d.HI.At(1, 2, 5)
	n := d.Total()
	if got, want := n.At(1, 2, 5), d.HI.At(1, 2, 5)+2.*d.H2.At(1, 2, 5); got != want {
		t.Fatalf("total %g, want %g", got, want)
	}
	if d.HI.At(1, 2, 5) != hi {
		t.Fatal("Total modified HI")
	}
	w := d.Widths()
	if len(w) != 3 || math.Abs(w[1]-phys.KiloparsecCM)/phys.KiloparsecCM > 1e-15 {
		t.Fatalf("widths %v", w)
	}
	r := d.Radii()
	if r[2] != 2250. || d.Centres[2] != 2.25 {
		t.Fatalf("radii %v", r)
	}
	if ns, err := d.Nside(); err != nil || ns != 1 {
		t.Fatalf("nside %d, %v", ns, err)
	}
}

func TestValidate(t *testing.T) {
	d := sample()
	d.Edges = d.Edges[:3]
	if d.Validate() == nil {
		t.Fatal("accepted short edges")
	}
	d = sample()
	d.Centres[1] = d.Centres[0]
	if d.Validate() == nil {
		t.Fatal("accepted non-ascending centres")
	}
	d = sample()
	d.H2 = grid.NewCube(2, 3, 11)
	if d.Validate() == nil {
		t.Fatal("accepted mismatched phases")
	}
	d = sample()
	d.HI, d.H2 = grid.NewCube(1, 3, 10), grid.NewCube(1, 3, 10)
	if d.Validate() == nil {
		t.Fatal("accepted a non-healpix pixel axis")
	}
}

func TestFITSRoundTrip(t *testing.T) {
	d := sample()
	var buf bytes.Buffer
	if err := d.WriteFITS(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFITS(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if err := got.Validate(); err != nil {
		t.Fatal(err)
	}
	for i := range d.Edges {
		if got.Edges[i] != d.Edges[i] {
			t.Fatalf("edges %v, want %v", got.Edges, d.Edges)
		}
	}
	for i := range d.Centres {
		if got.Centres[i] != d.Centres[i] {
			t.Fatalf("centres %v, want %v", got.Centres, d.Centres)
		}
	}
	if got.HI.Shape() != d.HI.Shape() {
		t.Fatalf("shape %v, want %v", got.HI.Shape(), d.HI.Shape())
	}
	for i := range d.HI.Data {
		if got.HI.Data[i] != d.HI.Data[i] || got.H2.Data[i] != d.H2.Data[i] {
			t.Fatalf("density mismatch at %d", i)
		}
	}
}

func TestGobCache(t *testing.T) {
	d := sample()
	fp := filepath.Join(t.TempDir(), "gas.gob")
	if err := d.SaveGob(fp); err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	got, err := Get(fp, log)
	if err != nil {
		t.Fatal(err)
	}
	if got.HI.At(1, 1, 3) != d.HI.At(1, 1, 3) || len(got.Edges) != 4 {
		t.Fatal("gob round trip changed the densities")
	}
	if _, err := Get(filepath.Join(t.TempDir(), "gas.txt"), log); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}
