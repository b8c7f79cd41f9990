package gas

import (
	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/healpix"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"gonum.org/v1/gonum/floats"
)

// Total returns the hydrogen nucleus density 2 n(H2) + n(HI) [cm⁻³].
func (d *Density) Total() *grid.Cube {
	n := d.HI.Clone()
	floats.AddScaled(n.Data, 2., d.H2.Data)
	return n
}

// Widths returns the radial shell widths [cm].
func (d *Density) Widths() []float64 {
	w := grid.Diff(d.Edges)
	floats.Scale(phys.KiloparsecCM, w)
	return w
}

// Radii returns the shell centres [pc].
func (d *Density) Radii() []float64 {
	r := make([]float64, len(d.Centres))
	copy(r, d.Centres)
	floats.Scale(phys.PcPerKpc, r)
	return r
}

// Nside returns the healpix resolution of the pixel axis.
func (d *Density) Nside() (int, error) {
	_, _, np := d.Shape()
	return healpix.NsideFromNpix(np)
}
