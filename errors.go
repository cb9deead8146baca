package bessel

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain reports an input outside the domain of the solver, such as a
	// start point on a pole.
	ErrDomain = errors.New("bessel: input out of domain")

	// ErrConvergence reports that the inverse iteration hit its cap.
	ErrConvergence = errors.New("bessel: inverse iteration did not converge")

	// ErrDegenerate reports coincident or antipodal points, for which the
	// azimuths are undefined.
	ErrDegenerate = errors.New("bessel: degenerate input")
)

// DomainError describes the offending parameter.
type DomainError struct {
	Param string
	Value float64
	Want  string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("bessel: %s = %v out of domain, want %s", e.Param, e.Value, e.Want)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// ConvergenceError carries the state of the inverse iteration when it gave up.
type ConvergenceError struct {
	Iterations int
	Delta      float64 // last change of the longitude correction, arcseconds
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("bessel: inverse iteration did not converge after %d iterations (Δδ = %g\")",
		e.Iterations, e.Delta)
}

func (e *ConvergenceError) Is(target error) bool { return target == ErrConvergence }

// DegenerateReason tells which degenerate configuration was detected.
type DegenerateReason int

const (
	Coincident DegenerateReason = iota + 1
	Antipodal
)

func (r DegenerateReason) String() string {
	switch r {
	case Coincident:
		return "coincident"
	case Antipodal:
		return "antipodal"
	default:
		return "unknown"
	}
}

// DegenerateInputError is returned by Inverse for coincident or antipodal
// points. For coincident points the accompanying result is still valid: the
// distance is zero and only the azimuths are undefined.
type DegenerateInputError struct {
	Reason DegenerateReason
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("bessel: degenerate input (%s points), azimuth undefined", e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerate }
