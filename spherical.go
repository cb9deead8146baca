// Haversine separation on the auxiliary sphere.
//
// Copyright (c) Joshua Baker (2021) and licensed under the MIT License.
//
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - */
/* Latitude/longitude spherical geodesy tools   (c) Chris Veness 2002-2019 */
/*                                                             MIT Licence */
/* www.movable-type.co.uk/scripts/latlong.html                             */
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - */

package bessel

import "math"

const (
	coincidentEps = 1e-12 // radians on the auxiliary sphere, about 6µm
	antipodalEps  = 1e-7  // haversine loses half the digits next to π
)

// separation is the great-circle angle between two points of the auxiliary
// sphere given by their reduced latitudes and longitude difference (radians).
func separation(u1, u2, dlon float64) float64 {
	// haversine formula
	sΔu2 := math.Sin((u2 - u1) / 2)
	sΔλ2 := math.Sin(dlon / 2)
	haver := sΔu2*sΔu2 + math.Cos(u1)*math.Cos(u2)*sΔλ2*sΔλ2
	if haver > 1 {
		haver = 1
	}
	return 2 * math.Asin(math.Sqrt(haver))
}

// degeneracy classifies a pair of points for the inverse problem. It returns
// zero when the azimuths are well defined.
func degeneracy(u1, u2, dlon float64) DegenerateReason {
	σ := separation(u1, u2, dlon)
	switch {
	case σ < coincidentEps:
		return Coincident
	case math.Pi-σ < antipodalEps:
		return Antipodal
	}
	return 0
}
