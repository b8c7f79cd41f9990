// Package healpix converts nested-scheme HEALPix pixel indices to the
// colatitude and longitude of the pixel centres.
package healpix

import (
	"fmt"
	"math"
)

var (
	jrll = [12]int{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4} // ring of the face's southern vertex, in units of nside
	jpll = [12]int{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7} // longitude of the face centre, in units of pi/4
)

// Npix returns the number of pixels of a map of resolution nside.
func Npix(nside int) int { return 12 * nside * nside }

// NsideFromNpix inverts Npix.
func NsideFromNpix(npix int) (int, error) {
	ns := int(math.Round(math.Sqrt(float64(npix) / 12.)))
	if ns < 1 || Npix(ns) != npix {
		return 0, fmt.Errorf("healpix: %d is not a valid pixel count", npix)
	}
	return ns, nil
}

// Pix2AngNest returns the colatitude theta in [0, pi] and the longitude phi
// in [0, 2pi) of the centre of nested pixel ipix.
func Pix2AngNest(nside, ipix int) (theta, phi float64) {
	if nside < 1 || ipix < 0 || ipix >= Npix(nside) {
		panic(fmt.Sprintf("healpix.Pix2AngNest: pixel %d out of range for nside %d", ipix, nside))
	}
	npface := nside * nside
	face := ipix / npface
	ix, iy := deinterleave(ipix % npface)

	nl4 := 4 * nside
	jr := jrll[face]*nside - ix - iy - 1

	var nr, kshift int
	var z float64
	switch {
	case jr < nside: // north polar cap
		nr = jr
		z = 1. - float64(nr*nr)/float64(3*npface)
	case jr > 3*nside: // south polar cap
		nr = nl4 - jr
		z = float64(nr*nr)/float64(3*npface) - 1.
	default:
		nr = nside
		z = float64(2*nside-jr) * 2. / float64(3*nside)
		kshift = (jr - nside) & 1
	}

	jp := (jpll[face]*nr + ix - iy + 1 + kshift) / 2
	if jp > nl4 {
		jp -= nl4
	}
	if jp < 1 {
		jp += nl4
	}

	theta = math.Acos(math.Max(-1., math.Min(1., z)))
	phi = (float64(jp) - .5*float64(kshift+1)) * math.Pi / (2. * float64(nr))
	return theta, phi
}

// deinterleave splits the in-face nested index into its x (even bits) and
// y (odd bits) coordinates.
func deinterleave(ipf int) (ix, iy int) {
	for b := 0; ipf > 0; b++ {
		ix |= (ipf & 1) << b
		ipf >>= 1
		iy |= (ipf & 1) << b
		ipf >>= 1
	}
	return ix, iy
}
