// Package gas holds the 3D interstellar gas-density samples used for
// line-of-sight integration: radial shells around the sun crossed with a
// nested healpix pixelization, one cube per gas phase.
package gas

import "github.com/DimitriosKantzas/gamma-dust/grid"

type Density struct {
	Edges   []float64  // radial shell edges [kpc], len = shells+1
	Centres []float64  // radial shell centres [kpc]
	HI, H2  *grid.Cube // [sample][shell][pixel] number densities [cm⁻³]
}

// Shape returns (samples, shells, pixels).
func (d *Density) Shape() (nsample, nshell, npix int) {
	return d.HI.N0, d.HI.N1, d.HI.N2
}
