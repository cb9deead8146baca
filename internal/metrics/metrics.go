// Package metrics instruments the solvers with Prometheus collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/bessel"
)

const (
	ProblemDirect  = "direct"
	ProblemInverse = "inverse"
)

var (
	solves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bessel",
		Name:      "solves_total",
		Help:      "Solved geodetic problems by problem and outcome.",
	}, []string{"problem", "outcome"})

	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bessel",
		Name:      "solve_duration_seconds",
		Help:      "Time spent in a single solve.",
		Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
	}, []string{"problem"})

	inverseIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bessel",
		Name:      "inverse_iterations",
		Help:      "Fixed-point iterations taken by converged inverse solves.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})
)

// Outcome classifies a solver error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, bessel.ErrDomain):
		return "domain"
	case errors.Is(err, bessel.ErrConvergence):
		return "convergence"
	case errors.Is(err, bessel.ErrDegenerate):
		return "degenerate"
	}
	return "error"
}

// Solver records every call on the wrapped ellipsoid.
type Solver struct {
	E *bessel.Ellipsoid
}

func NewSolver(e *bessel.Ellipsoid) *Solver {
	return &Solver{E: e}
}

func (s *Solver) Direct(lat1, lon1, azi1, s12 float64) (bessel.DirectResult, error) {
	start := time.Now()
	r, err := s.E.Direct(lat1, lon1, azi1, s12)
	observe(ProblemDirect, start, err)
	return r, err
}

func (s *Solver) Inverse(lat1, lon1, lat2, lon2 float64) (bessel.InverseResult, error) {
	start := time.Now()
	r, err := s.E.Inverse(lat1, lon1, lat2, lon2)
	observe(ProblemInverse, start, err)
	if err == nil {
		inverseIterations.Observe(float64(r.Iterations))
	}
	return r, err
}

func observe(problem string, start time.Time, err error) {
	solveDuration.WithLabelValues(problem).Observe(time.Since(start).Seconds())
	solves.WithLabelValues(problem, Outcome(err)).Inc()
}
