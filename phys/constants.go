// Package phys holds the physical constants and unit conversions shared by
// the transport, emissivity and line-of-sight stages.
package phys

// particle
const ProtonMass = 938.272e6 // proton rest mass [eV]

// diffusion coefficient D(p) = D0 beta (p/1GeV)^delta / (1+(p/pb)^2)^soft
const (
	DiffusionNorm      = 1.1e28  // D0 [cm²/s]
	DiffusionSlope     = 0.63    // delta
	DiffusionSoftening = 0.1     // high-momentum softening exponent
	BreakMomentum      = 312.0e9 // pb [eV/c]
	ReferenceMomentum  = 1.0e9   // [eV/c]
)

// supernova remnant source
const (
	SNRRate        = 0.03             // galactic SNR rate [yr⁻¹]
	SNREnergy      = 1.0e51 * ErgToEV // kinetic energy per SNR [eV]
	InjectionEmin  = 1.0e8            // lower kinetic energy of the injection integral [eV]
	InjectionEmax  = 1.0e14           // upper kinetic energy of the injection integral [eV]
	InjectionSteps = 5000             // log-spaced momentum samples of the injection integral
)

// source surface density of Yusifov & Kucuk (2004)
const (
	SourceCutoff = 15.0 // [kpc]
	YUK04Norm    = 5.95828e8
	YUK04B       = 1.64
	YUK04C       = 4.01
)

const (
	NuclearEnhancement = 1.8    // gamma-ray yield of nuclei heavier than protons
	SolarRadius        = 8178.0 // galactocentric radius of the sun [pc]
	ProjectionPoints   = 200000 // uniform radial samples of the Bessel projection
)

// units
const (
	LightSpeed     = 3.0e10           // [cm/s]
	ErgToEV        = 6.242e11         // [eV/erg]
	EVPerGeV       = 1.0e9            // [eV/GeV]
	SecondsPerYear = 365.0 * 86400.0  // [s/yr]
	ParsecCM       = 3.08567758e18    // [cm/pc]
	KiloparsecCM   = 1.0e3 * ParsecCM // [cm/kpc]
	KilometreCM    = 1.0e5            // [cm/km]
	PcPerKpc       = 1.0e3
)

// FluxScale turns a spatial density [eV⁻¹ pc⁻³] times the source rate into
// a flux [GeV⁻¹ cm⁻² s⁻¹].
const FluxScale = EVPerGeV / (ParsecCM * ParsecCM * ParsecCM)

// KmPerSecToPcPerYr converts a velocity [km/s] to [pc/yr].
func KmPerSecToPcPerYr(v float64) float64 {
	return v * KilometreCM * SecondsPerYear / ParsecCM
}

// CM2PerSecToPC2PerYr converts a diffusion coefficient [cm²/s] to [pc²/yr].
func CM2PerSecToPC2PerYr(d float64) float64 {
	return d * SecondsPerYear / (ParsecCM * ParsecCM)
}
