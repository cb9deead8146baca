package bessel

import "math"

const radians = math.Pi / 180
const degrees = 180 / math.Pi

// arcsecPerRadian is the rounded ρ'' of the Bessel series. The coefficients
// were fitted against this value, so it is kept rather than 180·3600/π.
const arcsecPerRadian = 206265

func toRadians(degs float64) float64 {
	return degs * radians
}

func toDegrees(rads float64) float64 {
	return rads * degrees
}

// wrap360 maps degs into [0, 360).
func wrap360(degs float64) float64 {
	degs = math.Mod(degs, 360)
	if degs < 0 {
		degs += 360
	}
	if degs >= 360 {
		degs = 0
	}
	return degs
}

// wrap180 maps degs into [-180, 180).
func wrap180(degs float64) float64 {
	if degs < -180 || degs >= 180 {
		degs = wrap360(degs+180) - 180
	}
	return degs
}

// wrapPi maps rads into [-π, π).
func wrapPi(rads float64) float64 {
	if rads < -math.Pi || rads >= math.Pi {
		rads = math.Mod(rads+math.Pi, 2*math.Pi)
		if rads < 0 {
			rads += 2 * math.Pi
		}
		rads -= math.Pi
	}
	return rads
}
