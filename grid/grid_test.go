package grid

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseDefinition(t *testing.T) {
	d, err := ParseDefinition("1e9:1e14:81:log")
	if err != nil {
		t.Fatal(err)
	}
	if d.Lo != 1e9 || d.Hi != 1e14 || d.N != 81 || !d.Log {
		t.Fatalf("parsed %+v", d)
	}
	v, err := d.Values()
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 81 || math.Abs(v[0]-1e9) > 1 || math.Abs(v[80]-1e14)/1e14 > 1e-12 {
		t.Fatalf("axis ends %g %g (n=%d)", v[0], v[len(v)-1], len(v))
	}
	if math.Abs(v[16]/v[0]-10.) > 1e-9 {
		t.Fatalf("log axis not a decade per 16 steps: %g", v[16]/v[0])
	}

	for _, bad := range []string{"", "1:2", "a:2:3", "2:1:5", "0:1:5:log", "1:2:3:cubic", "1:2:0"} {
		if _, err := ParseDefinition(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDefinitionYAML(t *testing.T) {
	var s struct {
		Radii Definition `yaml:"radii"`
	}
	if err := yaml.Unmarshal([]byte("radii: 0:20000:501\n"), &s); err != nil {
		t.Fatal(err)
	}
	if s.Radii != (Definition{Lo: 0, Hi: 20000, N: 501}) {
		t.Fatalf("decoded %+v", s.Radii)
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "radii: 0:20000:501\n" {
		t.Fatalf("encoded %q", b)
	}
}

func TestAxisHelpers(t *testing.T) {
	x := Linspace(0., 4000., 41)
	if x[1] != 100. || x[40] != 4000. {
		t.Fatalf("linspace %v", x[:2])
	}
	if !Ascending(x) {
		t.Fatal("linspace not ascending")
	}
	if Ascending([]float64{0, 1, 1}) || Ascending([]float64{0, math.NaN()}) {
		t.Fatal("Ascending accepted bad axis")
	}
	d := Diff([]float64{1, 2, 4, 7})
	if len(d) != 3 || d[0] != 1 || d[1] != 2 || d[2] != 3 {
		t.Fatalf("diff %v", d)
	}
	if Diff([]float64{1}) != nil {
		t.Fatal("diff of one point")
	}

	// trapezoid weights integrate x^1 exactly on any grid
	g := []float64{0, .5, 2, 3}
	w := TrapezoidWeights(g)
	s := 0.
	for i := range g {
		s += w[i] * g[i]
	}
	if math.Abs(s-4.5) > 1e-12 {
		t.Fatalf("int x dx = %g, want 4.5", s)
	}
}

func TestCube(t *testing.T) {
	c := NewCube(2, 3, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				c.Set(i, j, k, float64(100*i+10*j+k))
			}
		}
	}
	if c.Data[c.Index(1, 2, 3)] != 123. || c.Index(1, 0, 0) != 12 {
		t.Fatal("row-major index")
	}
	s := c.Slab(1)
	if len(s) != 12 || s[0] != 100. {
		t.Fatalf("slab %v", s)
	}
	s[0] = -1.
	if c.At(1, 0, 0) != -1. {
		t.Fatal("slab does not share storage")
	}

	tr, err := c.Transpose([3]int{2, 0, 1}) // (k, i, j)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Shape() != [3]int{4, 2, 3} || tr.At(3, 1, 2) != 123. {
		t.Fatalf("transpose shape %v value %g", tr.Shape(), tr.At(3, 1, 2))
	}
	if _, err := c.Transpose([3]int{0, 0, 1}); err == nil {
		t.Fatal("expected invalid permutation")
	}
	if _, err := CubeFrom(2, 2, 2, make([]float64, 7)); err == nil {
		t.Fatal("expected size error")
	}
}
