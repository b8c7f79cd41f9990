package grid

import "fmt"

// Cube is a dense three-axis array stored row-major: axis 0 slowest,
// axis 2 fastest, flat index (i*N1+j)*N2+k.
type Cube struct {
	N0, N1, N2 int
	Data       []float64
}

// NewCube allocates a zeroed cube.
func NewCube(n0, n1, n2 int) *Cube {
	if n0 < 0 || n1 < 0 || n2 < 0 {
		panic(fmt.Sprintf("grid.NewCube: negative dimension (%d, %d, %d)", n0, n1, n2))
	}
	return &Cube{N0: n0, N1: n1, N2: n2, Data: make([]float64, n0*n1*n2)}
}

// CubeFrom wraps an existing flat slice.
func CubeFrom(n0, n1, n2 int, data []float64) (*Cube, error) {
	if n0 < 0 || n1 < 0 || n2 < 0 || len(data) != n0*n1*n2 {
		return nil, fmt.Errorf("grid.CubeFrom: %d values do not fill (%d, %d, %d)", len(data), n0, n1, n2)
	}
	return &Cube{N0: n0, N1: n1, N2: n2, Data: data}, nil
}

func (c *Cube) Shape() [3]int { return [3]int{c.N0, c.N1, c.N2} }

func (c *Cube) Index(i, j, k int) int { return (i*c.N1+j)*c.N2 + k }

func (c *Cube) At(i, j, k int) float64 { return c.Data[c.Index(i, j, k)] }

func (c *Cube) Set(i, j, k int, v float64) { c.Data[c.Index(i, j, k)] = v }

// Slab returns the N1*N2 block at axis-0 index i, sharing storage.
func (c *Cube) Slab(i int) []float64 {
	n := c.N1 * c.N2
	return c.Data[i*n : (i+1)*n : (i+1)*n]
}

// Clone returns a deep copy.
func (c *Cube) Clone() *Cube {
	d := make([]float64, len(c.Data))
	copy(d, c.Data)
	return &Cube{N0: c.N0, N1: c.N1, N2: c.N2, Data: d}
}

// Transpose reorders the axes so that axis a of the result is axis perm[a]
// of c.
func (c *Cube) Transpose(perm [3]int) (*Cube, error) {
	seen := [3]bool{}
	for _, p := range perm {
		if p < 0 || p > 2 || seen[p] {
			return nil, fmt.Errorf("grid.Transpose: invalid permutation %v", perm)
		}
		seen[p] = true
	}
	src := c.Shape()
	o := NewCube(src[perm[0]], src[perm[1]], src[perm[2]])
	var ix [3]int
	for ix[0] = 0; ix[0] < c.N0; ix[0]++ {
		for ix[1] = 0; ix[1] < c.N1; ix[1]++ {
			for ix[2] = 0; ix[2] < c.N2; ix[2]++ {
				o.Set(ix[perm[0]], ix[perm[1]], ix[perm[2]], c.At(ix[0], ix[1], ix[2]))
			}
		}
	}
	return o, nil
}
