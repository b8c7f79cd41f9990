package gammadust

import (
	"math"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/DimitriosKantzas/gamma-dust/phys"
	"gonum.org/v1/gonum/integrate"
)

// momentum returns p [eV/c] and beta = v/c of a proton of kinetic energy E [eV].
func momentum(E float64) (p, beta float64) {
	w := E + phys.ProtonMass
	p = math.Sqrt(w*w - phys.ProtonMass*phys.ProtonMass)
	return p, p / w
}

// diffusion returns D(p) [pc²/yr].
func diffusion(p, beta float64) float64 {
	d0 := phys.CM2PerSecToPC2PerYr(phys.DiffusionNorm)
	pb := p / phys.BreakMomentum
	return d0 * beta * math.Pow(p/phys.ReferenceMomentum, phys.DiffusionSlope) / math.Pow(1.+pb*pb, phys.DiffusionSoftening)
}

// injectionNorm is the kinetic-energy integral of the injection spectrum,
// int x^(2-alpha) (sqrt(x²+1)-1) dx over x = p/mp between the momenta of
// phys.InjectionEmin and phys.InjectionEmax.
func injectionNorm(alpha float64) float64 {
	pmin, _ := momentum(phys.InjectionEmin)
	pmax, _ := momentum(phys.InjectionEmax)
	x := grid.Logspace(pmin/phys.ProtonMass, pmax/phys.ProtonMass, phys.InjectionSteps)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = math.Pow(xi, 2.-alpha) * (math.Sqrt(xi*xi+1.) - 1.)
	}
	return integrate.Trapezoidal(x, y)
}

// injection returns the source-rate spectrum Q(E) of cosmic-ray protons
// for injection index alpha, energy fraction xi and normalisation gam.
func injection(E, alpha, xi, gam float64) float64 {
	p, beta := momentum(E)
	mp := phys.ProtonMass
	q := xi * phys.SNREnergy / (mp * mp * beta * gam) * math.Pow(p/mp, 2.-alpha)
	return q * phys.SNRRate * beta * phys.LightSpeed
}

// verticalKernel is the height dependence of one Bessel mode,
//
//	exp(u0 z/2D) sinh(S(L-z)/2) / [sinh(SL/2) (u0 + S D coth(SL/2))],
//
// written with non-positive exponents only:
//
//	exp((u0/D-S) z/2) (1-e^{-S(L-z)}) / [(1-e^{-SL}) u0 + S D (1+e^{-SL})].
func verticalKernel(S, u0, D, L, z float64) float64 {
	num := math.Exp(.5*(u0/D-S)*z) * -math.Expm1(-S*(L-z))
	den := -math.Expm1(-S*L)*u0 + S*D*(1.+math.Exp(-S*L))
	return num / den
}
