package gammadust

import (
	"fmt"
	"math"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// CrossSection returns the differential gamma-ray production cross-section
// dsigma/dEg [cm² GeV⁻¹] for a proton of kinetic energy protonGeV producing
// a photon of energy photonGeV.
type CrossSection func(protonGeV, photonGeV float64) float64

// Tabulate evaluates xs once per (proton, photon) energy pair. Rows of the
// table are proton energies, columns photon energies.
func Tabulate(xs CrossSection, protonGeV, photonGeV []float64) (*mat.Dense, error) {
	const op = "Tabulate"
	if len(protonGeV) == 0 {
		return nil, shapeErr(op, "proton energies", 1, 0)
	}
	if len(photonGeV) == 0 {
		return nil, shapeErr(op, "photon energies", 1, 0)
	}
	m := mat.NewDense(len(protonGeV), len(photonGeV), nil)
	for i, ep := range protonGeV {
		for j, eg := range photonGeV {
			v := xs(ep, eg)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, domainErr(op, "cross-section not finite at (%g, %g) GeV", ep, eg)
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// LoadCrossSectionNPY reads a pre-tabulated cross-section [cm² GeV⁻¹] stored
// as a 2D NumPy array (proton energy x photon energy).
func LoadCrossSectionNPY(fp string) (*mat.Dense, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadCrossSectionNPY failed: %w", err)
	}
	defer f.Close()
	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, fmt.Errorf("LoadCrossSectionNPY %s failed: %w", fp, err)
	}
	return &m, nil
}

// SaveCrossSectionNPY writes a tabulated cross-section for reuse.
func SaveCrossSectionNPY(fp string, m *mat.Dense) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("SaveCrossSectionNPY failed: %w", err)
	}
	defer f.Close()
	if err := npyio.Write(f, m); err != nil {
		return fmt.Errorf("SaveCrossSectionNPY failed: %w", err)
	}
	return f.Close()
}
