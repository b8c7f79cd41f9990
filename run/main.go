package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	gammadust "github.com/DimitriosKantzas/gamma-dust"
	"github.com/DimitriosKantzas/gamma-dust/gas"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"github.com/maseology/mmio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	cfgPath  string
	verbose  bool
	progress bool
	output   string
	modes    int

	localR, localZ float64
	fitTarget      string
	fitIter        int
	fitSamples     int

	cfg gammadust.Config

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "gammadust",
	Short: "Galactic cosmic-ray transport and diffuse gamma-ray maps",
	Long: `Solves the steady-state diffusion-advection of cosmic-ray protons in a
cylindrical halo with a Fourier-Bessel expansion of the source distribution,
folds the flux with a gamma-ray production cross-section and integrates the
emissivity through gas-density samples along healpix lines of sight.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Compute the gamma-ray maps of every gas sample",
	RunE:  runMap,
}

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Print the cosmic-ray spectrum and gamma-ray emissivity at one point",
	RunE:  runLocal,
}

var coefCmd = &cobra.Command{
	Use:   "coefficients",
	Short: "Print the Fourier-Bessel coefficients of the source distribution",
	RunE:  runCoefficients,
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the source shape (A, B, C) by gradient descent",
	Long: `Fit the source shape by gradient descent, starting from the configured source.

Targets:
  profile  radial surface densities: fit.observed is an .npz with arrays r [pc]
           and f [pc^-2]; without it the Yusifov & Kucuk (2004) profile is
           sampled on the radial grid
  map      gamma-ray maps: fit.observed is an .npz written by "map"`,
	RunE: runFit,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "YAML run configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&progress, "progress", false, "show a progress bar while the transport kernels are built")
	pf.StringVarP(&output, "output", "o", "", "output prefix (overrides the configuration)")
	pf.IntVar(&modes, "modes", 0, "number of Bessel modes (overrides the configuration)")

	localCmd.Flags().Float64Var(&localR, "r", phys.SolarRadius, "galactocentric radius [pc]")
	localCmd.Flags().Float64Var(&localZ, "z", 0., "height above the plane [pc]")

	fitCmd.Flags().StringVar(&fitTarget, "target", "", `"profile" or "map" (overrides the configuration)`)
	fitCmd.Flags().IntVar(&fitIter, "iter", 0, "maximum iterations (overrides the configuration)")
	fitCmd.Flags().IntVar(&fitSamples, "samples", 0, "Latin-hypercube prescreen of the starting shape (overrides the configuration)")

	rootCmd.AddCommand(mapCmd, localCmd, coefCmd, fitCmd)
}

func main() {
	tt := mmio.NewTimer()
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	if verbose {
		tt.Print("gammadust complete")
	}
}

// setup configures logging and reads the configuration, applying flag
// overrides.
func setup(cmd *cobra.Command, _ []string) error {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg = gammadust.DefaultConfig()
	if cfgPath != "" {
		var err error
		if cfg, err = gammadust.LoadConfig(cfgPath); err != nil {
			return err
		}
	}
	if output != "" {
		cfg.Output = output
	}
	if modes > 0 {
		cfg.Modes = modes
	}
	if fitTarget != "" {
		cfg.Fit.Target = fitTarget
	}
	if fitIter > 0 {
		cfg.Fit.MaxIter = fitIter
	}
	if fitSamples > 0 {
		cfg.Fit.Samples = fitSamples
	}
	log.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"procs":   runtime.GOMAXPROCS(0),
	}).Debugf("configuration: %s", cfgPath)
	return cfg.Validate()
}

// pipeline builds the forward model; withGas also loads the gas samples and
// their lines of sight.
func pipeline(withGas bool) (*gammadust.Pipeline, error) {
	zeta, energies, radii, heights, err := cfg.Axes()
	if err != nil {
		return nil, err
	}
	xs, err := crossSection(energies)
	if err != nil {
		return nil, err
	}
	in := gammadust.Inputs{
		Params:           cfg.Params,
		Zeta:             zeta,
		Energies:         energies,
		Radii:            radii,
		Heights:          heights,
		CrossSection:     xs,
		Enhancement:      cfg.Enhancement,
		ProjectionPoints: cfg.ProjectionPoints,
	}
	if withGas {
		d, err := loadGas(cfg.Gas)
		if err != nil {
			return nil, err
		}
		d.CheckAndPrint(log)
		nside, err := d.Nside()
		if err != nil {
			return nil, err
		}
		_, _, npix := d.Shape()
		in.Gas, in.Widths = d.Total(), d.Widths()
		if in.Points, err = gammadust.Sightlines(d.Radii(), nside, npix, nil, cfg.SolarRadius); err != nil {
			return nil, err
		}
	}
	var opts []gammadust.TransportOption
	if progress {
		opts = append(opts, gammadust.WithProgress())
	}
	return gammadust.NewPipeline(in, log, opts...)
}

// crossSection reads the tabulated cross-section and checks it against the
// proton and photon energy axes.
func crossSection(energies []float64) (*mat.Dense, error) {
	if cfg.CrossSection == "" {
		return nil, fmt.Errorf("no cross-section table: set cross_section in the configuration")
	}
	xs, err := gammadust.LoadCrossSectionNPY(cfg.CrossSection)
	if err != nil {
		return nil, err
	}
	if r, c := xs.Dims(); r != len(energies) || c != len(cfg.PhotonGeV) {
		return nil, fmt.Errorf("cross-section table %s is %d x %d, want %d proton x %d photon energies",
			cfg.CrossSection, r, c, len(energies), len(cfg.PhotonGeV))
	}
	return xs, nil
}

// loadGas reads the gas densities, keeping a .gob copy next to a .fits file
// for later runs.
func loadGas(fp string) (*gas.Density, error) {
	if fp == "" {
		return nil, fmt.Errorf("no gas densities: set gas in the configuration")
	}
	if !strings.HasSuffix(strings.ToLower(fp), ".gob") {
		cache := fp + ".gob"
		if _, err := os.Stat(cache); err == nil {
			return gas.Get(cache, log)
		}
		d, err := gas.Get(fp, log)
		if err != nil {
			return nil, err
		}
		if err := d.SaveGob(cache); err != nil {
			log.Warnf(" gas cache not written: %v", err)
		}
		return d, nil
	}
	return gas.Get(fp, log)
}

func runMap(_ *cobra.Command, _ []string) error {
	tt := mmio.NewTimer()
	pl, err := pipeline(true)
	if err != nil {
		return err
	}
	m, err := pl.GammaMap(cfg.Source)
	if err != nil {
		return err
	}
	fp := cfg.Output + ".npz"
	if err := gammadust.SaveNPZ(fp, cfg.PhotonGeV, m); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"samples": m.N0,
		"photon":  m.N1,
		"pixels":  m.N2,
	}).Infof("gamma-ray maps written to %s - %v", fp, tt.Now())
	return nil
}

func runLocal(_ *cobra.Command, _ []string) error {
	pl, err := pipeline(false)
	if err != nil {
		return err
	}
	j, em, err := pl.Local(cfg.Source, localR, localZ)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "# r = %g pc, z = %g pc\n", localR, localZ)
	fmt.Fprintln(w, "E [GeV]\tj [GeV^-1 cm^-2 s^-1 sr^-1]")
	for i, e := range pl.Energies {
		fmt.Fprintf(w, "%.4e\t%.6e\n", e/phys.EVPerGeV, j[i])
	}
	fmt.Fprintln(w, "\nEg [GeV]\temissivity [GeV^-1 s^-1 sr^-1]")
	for i, e := range cfg.PhotonGeV {
		fmt.Fprintf(w, "%.4e\t%.6e\n", e, em[i])
	}
	return w.Flush()
}

func runCoefficients(_ *cobra.Command, _ []string) error {
	zeta, _, _, _, err := cfg.Axes()
	if err != nil {
		return err
	}
	p, err := gammadust.NewProjector(zeta, cfg.Params.R, cfg.ProjectionPoints)
	if err != nil {
		return err
	}
	q, err := p.Project(cfg.Source.Profile())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "n\tzeta_n\tq_n [pc^-2]")
	for n, v := range q {
		fmt.Fprintf(w, "%d\t%.10f\t%.8e\n", n+1, zeta[n], v)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return gammadust.SaveBinary(cfg.Output+".coefficients.bin", q)
}

func runFit(_ *cobra.Command, _ []string) error {
	var obj gammadust.Objective
	switch cfg.Fit.Target {
	case "profile":
		o, err := profileTarget()
		if err != nil {
			return err
		}
		obj = o
	case "map":
		pl, err := pipeline(true)
		if err != nil {
			return err
		}
		if cfg.Fit.Observed == "" {
			return fmt.Errorf("map fit needs fit.observed")
		}
		_, obs, err := gammadust.LoadNPZ(cfg.Fit.Observed)
		if err != nil {
			return err
		}
		obj = &gammadust.MapTarget{Pipeline: pl, Observed: obs}
	default:
		return fmt.Errorf("unknown fit target %q", cfg.Fit.Target)
	}

	start := cfg.Source
	if cfg.Fit.Samples > 0 {
		cs, err := gammadust.Prescreen(obj, cfg.Fit.Samples, cfg.ShapeRanges(), cfg.Fit.Seed)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"samples": len(cs),
			"loss":    cs[0].Loss,
		}).Infof("prescreen start A=%.4g B=%.4g C=%.4g", cs[0].Shape.A, cs[0].Shape.B, cs[0].Shape.C)
		start = cs[0].Shape
	}

	f := gammadust.Fitter{
		Objective:     obj,
		LearningRates: cfg.Fit.LearningRates,
		RelStep:       cfg.Fit.RelStep,
		MaxIter:       cfg.Fit.MaxIter,
		Tol:           cfg.Fit.Tol,
		Log:           log,
	}
	res, err := f.Fit(start)
	if res != nil {
		res.Report(log)
	}
	if err != nil {
		return err
	}
	if err := logResiduals(obj, res.Shape); err != nil {
		return err
	}

	out := cfg
	out.Source = res.Shape
	fp := cfg.Output + ".fit.yaml"
	if err := out.Save(fp); err != nil {
		return err
	}
	log.Infof("fitted configuration written to %s", fp)
	return nil
}

// logResiduals compares the fitted model with the fit target.
func logResiduals(obj gammadust.Objective, s gammadust.Shape) error {
	var model, observed []float64
	switch o := obj.(type) {
	case *gammadust.ProfileTarget:
		q, err := o.Proj.Project(s.Profile())
		if err != nil {
			return err
		}
		if model, err = o.Proj.Synthesize(q, o.Radii); err != nil {
			return err
		}
		observed = o.Values
	case *gammadust.MapTarget:
		m, err := o.Pipeline.GammaMap(s)
		if err != nil {
			return err
		}
		model, observed = m.Data, o.Observed.Data
	default:
		return nil
	}
	rmse, bias, nse := gammadust.Residuals(model, observed)
	log.WithFields(logrus.Fields{
		"rmse": rmse,
		"bias": bias,
		"nse":  nse,
	}).Info("fitted residuals")
	return nil
}

// profileTarget reads the reference profile, or samples the Yusifov & Kucuk
// (2004) distribution on the radial grid inside its cutoff.
func profileTarget() (*gammadust.ProfileTarget, error) {
	zeta, _, radii, _, err := cfg.Axes()
	if err != nil {
		return nil, err
	}
	p, err := gammadust.NewProjector(zeta, cfg.Params.R, cfg.ProjectionPoints)
	if err != nil {
		return nil, err
	}
	if cfg.Fit.Observed != "" {
		r, v, err := gammadust.LoadProfileNPZ(cfg.Fit.Observed)
		if err != nil {
			return nil, err
		}
		return &gammadust.ProfileTarget{Proj: p, Radii: r, Values: v}, nil
	}

	ref := gammadust.YUK04().Profile()
	var r, v []float64
	for _, x := range radii {
		if x >= phys.SourceCutoff*phys.PcPerKpc {
			break
		}
		r = append(r, x)
		v = append(v, ref(x))
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("no radii inside the %g kpc source cutoff", phys.SourceCutoff)
	}
	log.Debugf(" profile target: %d radii, peak %.4g pc^-2", len(r), floats.Max(v))
	return &gammadust.ProfileTarget{Proj: p, Radii: r, Values: v}, nil
}
