package gammadust

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"

	"github.com/DimitriosKantzas/gamma-dust/phys"
)

// Parameters of the cylindrical halo and its cosmic-ray source.
type Parameters struct {
	R     float64 `yaml:"R"`     // halo radius [pc]
	L     float64 `yaml:"L"`     // halo half-height [pc]
	Alpha float64 `yaml:"alpha"` // injection spectral index
	XiSNR float64 `yaml:"xi"`    // fraction of SNR kinetic energy given to cosmic rays
	U0    float64 `yaml:"u0"`    // advection speed [km/s]
}

func DefaultParameters() Parameters {
	return Parameters{
		R:     20000.,
		L:     4000.,
		Alpha: 4.23,
		XiSNR: 0.065,
		U0:    7.,
	}
}

// Validate rejects halos of non-positive size and non-finite values.
func (p Parameters) Validate() error {
	for _, v := range []struct {
		n string
		x float64
	}{{"R", p.R}, {"L", p.L}, {"alpha", p.Alpha}, {"xi", p.XiSNR}, {"u0", p.U0}} {
		if math.IsNaN(v.x) || math.IsInf(v.x, 0) {
			return domainErr("Parameters", "%s is not finite (%g)", v.n, v.x)
		}
	}
	if p.R <= 0. {
		return domainErr("Parameters", "halo radius R = %g pc", p.R)
	}
	if p.L <= 0. {
		return domainErr("Parameters", "halo height L = %g pc", p.L)
	}
	return nil
}

// advection returns u0 [pc/yr].
func (p Parameters) advection() float64 { return phys.KmPerSecToPcPerYr(p.U0) }

func (p *Parameters) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" parameters.SaveGob %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf(" parameters.SaveGob %v", err)
	}
	return nil
}

func LoadGobParameters(fp string) (*Parameters, error) {
	var p Parameters
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf(" parameters.LoadGob %v", err)
	}
	return &p, nil
}
