package bessel

import "math"

// DirectResult is the solution of the direct geodesic problem.
type DirectResult struct {
	Lat2 float64 // latitude of point 2 (degrees)
	Lon2 float64 // longitude of point 2 (degrees), in [-180, 180)
	Azi2 float64 // reverse azimuth at point 2, toward point 1 (degrees), in [0, 360)
}

// Direct solves the direct geodesic problem.
//
// Param lat1 is the latitude of point 1 (degrees).
// Param lon1 is the longitude of point 1 (degrees).
// Param azi1 is the azimuth at point 1 (degrees).
// Param s12 is the distance from point 1 to point 2 (meters).
//
// lat1 must be in the open range (-90, 90); the method is singular at the
// poles. lon1 must be in [-180, 180], azi1 in [0, 360] and s12 non-negative.
// A *DomainError is returned otherwise.
//
// The solution is closed form: the arc length on the auxiliary sphere is
// obtained from the truncated series with a single corrective step.
func (e *Ellipsoid) Direct(lat1, lon1, azi1, s12 float64) (DirectResult, error) {
	if err := checkDirect(lat1, lon1, azi1, s12); err != nil {
		return DirectResult{}, err
	}
	if s12 == 0 {
		return DirectResult{Lat2: lat1, Lon2: lon1, Azi2: wrap360(azi1 + 180)}, nil
	}

	B1 := toRadians(lat1)
	L1 := toRadians(lon1)
	A1 := toRadians(azi1)

	sinu1, cosu1 := e.reduced(B1)
	sinA1, cosA1 := math.Sincos(A1)

	// Clairaut's constant
	sinA0 := cosu1 * sinA1
	k := 1 - sinA0*sinA0

	A := seriesA(k)
	B, C, α, β := directSeries(k)

	// cot σ1 = cos u1·cos A1 / sin u1, only its double angle is needed.
	sin2σ1, cos2σ1 := doubleAngleCot(cosu1*cosA1, sinu1)

	σ0 := (s12 - (B+C*cos2σ1)*sin2σ1) / A
	sin2σ0, cos2σ0 := math.Sincos(2 * σ0)
	sin2σ01 := sin2σ1*cos2σ0 + cos2σ1*sin2σ0 // sin 2(σ0+σ1)
	cos2σ01 := cos2σ1*cos2σ0 - sin2σ1*sin2σ0 // cos 2(σ0+σ1)
	σ := σ0 + (B+5*C*cos2σ01)*sin2σ01/A

	sin2σ, cos2σ := math.Sincos(2 * σ)
	sin2σ1σ := sin2σ1*cos2σ + cos2σ1*sin2σ // sin 2(σ1+σ)

	// longitude correction, arcseconds
	δ := (α*σ + β*(sin2σ1σ-sin2σ1)) * sinA0

	sinσ, cosσ := math.Sincos(σ)

	sinu2 := sinu1*cosσ + cosu1*cosA1*sinσ
	B2 := math.Atan(sinu2 / (e.sqrt1me2 * math.Sqrt(1-sinu2*sinu2)))

	num := sinA1 * sinσ
	den := cosu1*cosσ - sinu1*sinσ*cosA1
	λ := resolve(atanRatio(num, den), directLambdaTable, num, tanSign(num, den))

	L2 := L1 + λ - δ/arcsecPerRadian

	num = cosu1 * sinA1
	den = cosu1*cosσ*cosA1 - sinu1*sinσ
	A2 := resolve(atanRatio(num, den), directAzi2Table, sinA1, tanSign(num, den))

	return DirectResult{
		Lat2: toDegrees(B2),
		Lon2: wrap180(toDegrees(L2)),
		Azi2: wrap360(toDegrees(A2)),
	}, nil
}

// doubleAngleCot returns sin 2σ and cos 2σ for cot σ = x/y. Written on x and
// y rather than the cotangent, so that y = 0 (the equator) stays finite.
func doubleAngleCot(x, y float64) (sin2σ, cos2σ float64) {
	n := x*x + y*y
	if n == 0 {
		return 0, 1
	}
	return 2 * x * y / n, (x*x - y*y) / n
}

func checkDirect(lat1, lon1, azi1, s12 float64) error {
	switch {
	case !(lat1 > -90 && lat1 < 90):
		return &DomainError{Param: "lat1", Value: lat1, Want: "(-90, 90)"}
	case !(lon1 >= -180 && lon1 <= 180):
		return &DomainError{Param: "lon1", Value: lon1, Want: "[-180, 180]"}
	case !(azi1 >= 0 && azi1 <= 360):
		return &DomainError{Param: "azi1", Value: azi1, Want: "[0, 360]"}
	case !(s12 >= 0) || math.IsInf(s12, 1):
		return &DomainError{Param: "s12", Value: s12, Want: "finite and >= 0"}
	}
	return nil
}
