package bessel

import "math"

// Krasovsky is a pre-initialized ellipsoid carrying the Krasovsky 1940 series
// coefficients used by Bessel's method.
var Krasovsky = NewEllipsoid()

const (
	// krasovskyE2 is the first eccentricity squared used for reduced latitudes.
	krasovskyE2 = 0.006694384999588

	defaultMaxIterations = 50
	defaultTolerance     = 1e-6 // arcseconds
)

// Ellipsoid is an object for solving geodesic problems with Bessel's method.
// It is immutable after construction and safe for concurrent use.
type Ellipsoid struct {
	e2        float64
	sqrt1me2  float64
	maxIter   int
	tolerance float64
	truncBeta bool
	qSigns    bool
}

// Option configures an Ellipsoid.
type Option func(*Ellipsoid)

// WithMaxIterations caps the number of fixed-point steps taken by Inverse.
// Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(e *Ellipsoid) {
		if n >= 1 {
			e.maxIter = n
		}
	}
}

// WithTolerance sets the convergence tolerance of Inverse, in arcseconds.
// Non-positive values are ignored.
func WithTolerance(arcsec float64) Option {
	return func(e *Ellipsoid) {
		if arcsec > 0 {
			e.tolerance = arcsec
		}
	}
}

// WithTruncatedBetaPrime drops the β' term of the inverse longitude
// correction, reproducing solutions computed with an integer-typed β'.
func WithTruncatedBetaPrime() Option {
	return func(e *Ellipsoid) {
		e.truncBeta = true
	}
}

// WithAzimuthSignsFromQ resolves the reverse azimuth of Inverse on the signs
// of p and q, the keys of the forward azimuth, instead of on the signs of its
// own numerator and denominator. This reproduces published solutions that
// share the two keys. It mirrors Azi2 about the east-west line whenever q
// and b1·cosλ − b2 differ in sign, so reciprocity no longer holds there.
func WithAzimuthSignsFromQ() Option {
	return func(e *Ellipsoid) {
		e.qSigns = true
	}
}

// NewEllipsoid initializes a new Krasovsky ellipsoid object.
//
// The Krasovsky package-level variable is a pre-initialized ellipsoid with
// the default options.
func NewEllipsoid(opts ...Option) *Ellipsoid {
	e := &Ellipsoid{
		e2:        krasovskyE2,
		maxIter:   defaultMaxIterations,
		tolerance: defaultTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sqrt1me2 = math.Sqrt(1 - e.e2)
	return e
}

// E2 is the first eccentricity squared of the Ellipsoid.
func (e *Ellipsoid) E2() float64 {
	return e.e2
}

// MaxIterations is the iteration cap of Inverse.
func (e *Ellipsoid) MaxIterations() int {
	return e.maxIter
}

// Tolerance is the convergence tolerance of Inverse, in arcseconds.
func (e *Ellipsoid) Tolerance() float64 {
	return e.tolerance
}

// reduced returns sin u and cos u of the reduced latitude for a geodetic
// latitude in radians.
func (e *Ellipsoid) reduced(lat float64) (sinu, cosu float64) {
	sinB, cosB := math.Sincos(lat)
	w := math.Sqrt(1 - e.e2*sinB*sinB)
	return sinB * e.sqrt1me2 / w, cosB / w
}

// The series below are hard-coded for the Krasovsky ellipsoid. k is cos²A0.

// seriesA is shared by the direct and inverse problems (meters).
func seriesA(k float64) float64 {
	return 6356863.020 + (10708.949-13.474*k)*k
}

// directSeries returns B, C (meters), α (arcsec per radian) and β (arcsec).
func directSeries(k float64) (b, c, alpha, beta float64) {
	b = (5354.469 - 8.978*k) * k
	c = (2.238*k)*k + 0.006
	alpha = (33523299 - (28189-70*k)*k) * 1e-10 * arcsecPerRadian
	beta = (0.2907 - 0.0010*k) * k
	return b, c, alpha, beta
}

// inverseLongitudeSeries returns α and β' (dimensionless).
func (e *Ellipsoid) inverseLongitudeSeries(k float64) (alpha, betaP float64) {
	alpha = (33523299 - (28189-70*k)*k) * 1e-10
	if !e.truncBeta {
		betaP = (28189 - 94*k) * 1e-10
	}
	return alpha, betaP
}

// inverseDistanceSeries returns B'' and C'' (meters).
func inverseDistanceSeries(k float64) (bpp, cpp float64) {
	return 10708.938 - 17.956*k, 4.487
}

// Direct solves the direct geodesic problem on the Krasovsky ellipsoid.
func Direct(lat1, lon1, azi1, s12 float64) (DirectResult, error) {
	return Krasovsky.Direct(lat1, lon1, azi1, s12)
}

// Inverse solves the inverse geodesic problem on the Krasovsky ellipsoid.
func Inverse(lat1, lon1, lat2, lon2 float64) (InverseResult, error) {
	return Krasovsky.Inverse(lat1, lon1, lat2, lon2)
}
