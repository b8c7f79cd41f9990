package gammadust

import (
	"bytes"
	"fmt"
	"os"

	"github.com/DimitriosKantzas/gamma-dust/bessel"
	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/opt"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"gopkg.in/yaml.v3"
)

// Config is a complete run description, read from YAML.
type Config struct {
	Params           Parameters      `yaml:"transport"`
	Source           Shape           `yaml:"source"`
	Modes            int             `yaml:"modes"`             // Bessel modes
	Energies         grid.Definition `yaml:"energies"`          // proton kinetic energy [eV]
	Radii            grid.Definition `yaml:"radii"`             // [pc]
	Heights          grid.Definition `yaml:"heights"`           // [pc]
	PhotonGeV        []float64       `yaml:"photon_energies"`   // [GeV]
	Enhancement      float64         `yaml:"enhancement"`       // nuclear enhancement factor
	SolarRadius      float64         `yaml:"solar_radius"`      // [pc]
	ProjectionPoints int             `yaml:"projection_points"` // radial quadrature points

	Gas          string `yaml:"gas"`           // .fits or .gob gas densities
	CrossSection string `yaml:"cross_section"` // .npy table (proton energy x photon energy) [cm² GeV⁻¹]
	Output       string `yaml:"output"`        // output prefix

	Fit FitConfig `yaml:"fit"`
}

type FitConfig struct {
	Target        string     `yaml:"target"` // "profile" or "map"
	Observed      string     `yaml:"observed"`
	LearningRates [3]float64 `yaml:"learning_rates"` // zero: derived from RelStep
	RelStep       float64    `yaml:"rel_step"`
	MaxIter       int        `yaml:"max_iter"`
	Tol           float64    `yaml:"tol"`

	// Latin-hypercube prescreen of the starting shape; off when Samples is 0.
	Samples int          `yaml:"samples"`
	Seed    uint64       `yaml:"seed"`
	Ranges  [3]opt.Range `yaml:"ranges"` // zero: DefaultShapeRanges(source)
}

// DefaultConfig returns the reference run: a 20 x 4 kpc halo, 150 modes and
// the Yusifov & Kucuk (2004) source distribution.
func DefaultConfig() Config {
	p := DefaultParameters()
	return Config{
		Params:           p,
		Source:           YUK04(),
		Modes:            150,
		Energies:         grid.Definition{Lo: 1e9, Hi: 1e14, N: 81, Log: true},
		Radii:            grid.Definition{Lo: 0., Hi: p.R, N: 501},
		Heights:          grid.Definition{Lo: 0., Hi: p.L, N: 41},
		PhotonGeV:        []float64{10., 100.},
		Enhancement:      phys.NuclearEnhancement,
		SolarRadius:      phys.SolarRadius,
		ProjectionPoints: phys.ProjectionPoints,
		Output:           "gamma_map",
		Fit: FitConfig{
			Target:  "profile",
			RelStep: 1e-2,
			MaxIter: 100,
			Tol:     1e-8,
		},
	}
}

// LoadConfig overlays the YAML file at fp on DefaultConfig. Unknown keys
// are an error.
func LoadConfig(fp string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(fp)
	if err != nil {
		return c, fmt.Errorf("LoadConfig failed: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("LoadConfig %s failed: %w", fp, err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Modes < 1 {
		return domainErr("Config", "%d Bessel modes", c.Modes)
	}
	if c.ProjectionPoints < phys.ProjectionPoints {
		return domainErr("Config", "%d projection points, need at least %d", c.ProjectionPoints, phys.ProjectionPoints)
	}
	if len(c.PhotonGeV) == 0 {
		return shapeErr("Config", "photon energies", 1, 0)
	}
	if c.Heights.Lo < 0. || c.Heights.Hi > c.Params.L {
		return domainErr("Config", "heights %v outside [0, %g]", c.Heights, c.Params.L)
	}
	if c.Radii.Lo < 0. {
		return domainErr("Config", "radii %v below 0", c.Radii)
	}
	if c.Energies.Lo <= 0. {
		return domainErr("Config", "energies %v not positive", c.Energies)
	}
	if c.Fit.Samples < 0 {
		return domainErr("Config", "%d prescreen samples", c.Fit.Samples)
	}
	if c.Fit.Samples > 0 && c.Fit.Ranges != ([3]opt.Range{}) {
		for _, r := range c.Fit.Ranges {
			if err := r.Validate(); err != nil {
				return domainErr("Config", "%v", err)
			}
		}
	}
	return nil
}

// ShapeRanges returns the prescreen ranges, defaulting about the source.
func (c Config) ShapeRanges() [3]opt.Range {
	if c.Fit.Ranges == ([3]opt.Range{}) {
		return DefaultShapeRanges(c.Source)
	}
	return c.Fit.Ranges
}

// Axes builds the transport grid and the Bessel zeros.
func (c Config) Axes() (zeta, energies, radii, heights []float64, err error) {
	if zeta, err = bessel.FirstZerosJ0(c.Modes); err != nil {
		return
	}
	if energies, err = c.Energies.Values(); err != nil {
		return
	}
	if radii, err = c.Radii.Values(); err != nil {
		return
	}
	heights, err = c.Heights.Values()
	return
}

// Save writes c as YAML.
func (c Config) Save(fp string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("Config.Save failed: %w", err)
	}
	return os.WriteFile(fp, b, 0644)
}
