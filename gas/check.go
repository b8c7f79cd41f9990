package gas

import (
	"fmt"
	"math"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Validate checks that the phases share one shape, that the radial axes
// describe the shell axis and that the pixel axis is a healpix map.
func (d *Density) Validate() error {
	if d.HI == nil || d.H2 == nil {
		return fmt.Errorf("gas.Validate: missing density cube")
	}
	if d.HI.Shape() != d.H2.Shape() {
		return fmt.Errorf("gas.Validate: HI shape %v differs from H2 shape %v", d.HI.Shape(), d.H2.Shape())
	}
	ns, nsh, _ := d.Shape()
	if ns == 0 {
		return fmt.Errorf("gas.Validate: no samples")
	}
	if len(d.Centres) != nsh {
		return fmt.Errorf("gas.Validate: %d shell centres for %d shells", len(d.Centres), nsh)
	}
	if len(d.Edges) != nsh+1 {
		return fmt.Errorf("gas.Validate: %d shell edges for %d shells", len(d.Edges), nsh)
	}
	if !grid.Ascending(d.Edges) || !grid.Ascending(d.Centres) {
		return fmt.Errorf("gas.Validate: radial axes must be strictly ascending")
	}
	if _, err := d.Nside(); err != nil {
		return fmt.Errorf("gas.Validate: %w", err)
	}
	return nil
}

// CheckAndPrint logs a summary of the loaded densities.
func (d *Density) CheckAndPrint(log logrus.FieldLogger) {
	ns, nsh, np := d.Shape()
	nside, _ := d.Nside()
	log.WithFields(logrus.Fields{
		"samples": ns,
		"shells":  nsh,
		"pixels":  np,
		"nside":   nside,
	}).Info("gas density summary")

	finite := func(a []float64) bool {
		for _, v := range a {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	if !finite(d.HI.Data) || !finite(d.H2.Data) {
		log.Warn("gas densities contain non-finite values")
	}
	log.Infof(" shells %.3f to %.3f kpc; mean n(HI) %.4g, n(H2) %.4g cm⁻³",
		d.Edges[0], d.Edges[len(d.Edges)-1],
		floats.Sum(d.HI.Data)/float64(len(d.HI.Data)),
		floats.Sum(d.H2.Data)/float64(len(d.H2.Data)))
}
