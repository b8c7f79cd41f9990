package gammadust

import (
	"math"

	"github.com/DimitriosKantzas/gamma-dust/healpix"
)

// PixelAngles returns the colatitude theta and longitude phi [rad] of the
// centre of pixel ipix of a map of resolution nside.
type PixelAngles func(nside, ipix int) (theta, phi float64)

// DefaultPixelAngles is the nested healpix scheme used by the gas maps.
var DefaultPixelAngles PixelAngles = healpix.Pix2AngNest

// Sightlines returns the galactocentric (R, |z|) of every (shell, pixel)
// cell seen from the sun at distance rsol [pc] from the galactic centre, in
// shell-major order: cell = shell*npix + pixel. shellRadii are heliocentric
// distances [pc]; pixel longitude l = phi and latitude b = pi/2 - theta.
func Sightlines(shellRadii []float64, nside, npix int, angles PixelAngles, rsol float64) ([]Point, error) {
	const op = "Sightlines"
	if len(shellRadii) == 0 {
		return nil, shapeErr(op, "shells", 1, 0)
	}
	if nside < 1 || npix < 1 {
		return nil, domainErr(op, "nside %d, npix %d", nside, npix)
	}
	if math.IsNaN(rsol) || math.IsInf(rsol, 0) {
		return nil, domainErr(op, "solar radius %g", rsol)
	}
	if angles == nil {
		angles = DefaultPixelAngles
	}

	cl, sl, cb, sb := make([]float64, npix), make([]float64, npix), make([]float64, npix), make([]float64, npix)
	for p := 0; p < npix; p++ {
		th, ph := angles(nside, p)
		b := .5*math.Pi - th
		sl[p], cl[p] = math.Sincos(ph)
		sb[p], cb[p] = math.Sincos(b)
	}

	pts := make([]Point, len(shellRadii)*npix)
	for s, r := range shellRadii {
		for p := 0; p < npix; p++ {
			x := -r*cl[p]*cb[p] + rsol
			y := -r * sl[p] * cb[p]
			z := r * sb[p]
			pts[s*npix+p] = Point{R: math.Hypot(x, y), Z: math.Abs(z)}
		}
	}
	return pts, nil
}
