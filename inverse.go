package bessel

import "math"

// InverseResult is the solution of the inverse geodesic problem.
type InverseResult struct {
	S12        float64 // distance from point 1 to point 2 (meters)
	Azi1       float64 // azimuth at point 1 (degrees), in [0, 360)
	Azi2       float64 // reverse azimuth at point 2, toward point 1 (degrees), in [0, 360)
	Iterations int     // fixed-point steps taken on the longitude correction
}

// Inverse solves the inverse geodesic problem.
//
// Param lat1 is latitude of point 1 (degrees).
// Param lon1 is longitude of point 1 (degrees).
// Param lat2 is latitude of point 2 (degrees).
// Param lon2 is longitude of point 2 (degrees).
//
// lat1 and lat2 must be in [-90, 90], lon1 and lon2 in [-180, 180].
//
// The longitude correction δ is found by fixed-point iteration, starting from
// δ = 0 and stopping once it changes by no more than the tolerance. A
// *ConvergenceError is returned if the iteration cap is reached first, which
// happens for nearly antipodal points.
//
// Coincident points yield a zero distance together with a
// *DegenerateInputError, since the azimuths are undefined. Exactly antipodal
// points yield a *DegenerateInputError and a zero result.
func (e *Ellipsoid) Inverse(lat1, lon1, lat2, lon2 float64) (InverseResult, error) {
	if err := checkInverse(lat1, lon1, lat2, lon2); err != nil {
		return InverseResult{}, err
	}

	sinu1, cosu1 := e.reduced(toRadians(lat1))
	sinu2, cosu2 := e.reduced(toRadians(lat2))
	L := wrapPi(toRadians(lon2) - toRadians(lon1))

	if r := degeneracy(math.Atan2(sinu1, cosu1), math.Atan2(sinu2, cosu2), L); r != 0 {
		return InverseResult{}, &DegenerateInputError{Reason: r}
	}

	a1 := sinu1 * sinu2
	a2 := cosu1 * cosu2
	b1 := cosu1 * sinu2
	b2 := sinu1 * cosu2

	var (
		δ, prevδ      float64 // arcseconds
		sinλ, cosλ    float64
		p, q          float64
		A1            float64
		sinσ, cosσ, σ float64
		k, x          float64
		n             int
	)
	λ := L
	for {
		prevδ = δ
		sinλ, cosλ = math.Sincos(λ)

		p = cosu2 * sinλ
		q = b1 - b2*cosλ
		A1 = resolve(atanRatio(p, q), inverseAzi1Table, p, q)
		sinA1, cosA1 := math.Sincos(A1)

		sinσ = p*sinA1 + q*cosA1
		cosσ = a1 + a2*cosλ
		σ = resolve(atanRatio(sinσ, cosσ), twoBranch, sinσ, cosσ)

		sinA0 := cosu1 * sinA1
		k = 1 - sinA0*sinA0
		x = 2*a1 - k*cosσ

		α, βp := e.inverseLongitudeSeries(k)
		δ = (α*σ - βp*x*sinσ) * sinA0 * arcsecPerRadian
		λ = L + δ/arcsecPerRadian
		n++

		if math.Abs(δ-prevδ) <= e.tolerance {
			break
		}
		if n >= e.maxIter {
			return InverseResult{}, &ConvergenceError{Iterations: n, Delta: math.Abs(δ - prevδ)}
		}
	}

	A := seriesA(k)
	Bpp, Cpp := inverseDistanceSeries(k)
	y := (k*k - 2*x*x) * cosσ
	S := A*σ + (Bpp*x+Cpp*y)*sinσ

	// The last λ of the loop is the converged one; p keeps the sign of the
	// numerator below, the denominator is taken as is.
	sinλ, cosλ = math.Sincos(λ)
	den := b1*cosλ - b2
	key := den
	if e.qSigns {
		key = q
	}
	A2 := resolve(atanRatio(cosu1*sinλ, den), inverseAzi2Table, p, key)

	return InverseResult{
		S12:        S,
		Azi1:       wrap360(toDegrees(A1)),
		Azi2:       wrap360(toDegrees(A2)),
		Iterations: n,
	}, nil
}

func checkInverse(lat1, lon1, lat2, lon2 float64) error {
	for _, c := range []struct {
		name string
		v    float64
		lim  float64
		want string
	}{
		{"lat1", lat1, 90, "[-90, 90]"},
		{"lon1", lon1, 180, "[-180, 180]"},
		{"lat2", lat2, 90, "[-90, 90]"},
		{"lon2", lon2, 180, "[-180, 180]"},
	} {
		if !(c.v >= -c.lim && c.v <= c.lim) {
			return &DomainError{Param: c.name, Value: c.v, Want: c.want}
		}
	}
	return nil
}
