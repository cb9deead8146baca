package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/bessel"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	_, err := bessel.Direct(90, 0, 0, 1)
	assert.Equal(t, "domain", Outcome(err))
	_, err = bessel.Inverse(1, 2, 1, 2)
	assert.Equal(t, "degenerate", Outcome(err))
	_, err = bessel.Inverse(0, 0, 0.5, 179.7)
	assert.Equal(t, "convergence", Outcome(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "error", Outcome(fmt.Errorf("boom")))
}

func TestSolverCounts(t *testing.T) {
	s := NewSolver(bessel.Krasovsky)
	ok := solves.WithLabelValues(ProblemInverse, "ok")
	degenerate := solves.WithLabelValues(ProblemInverse, "degenerate")
	okBefore := testutil.ToFloat64(ok)
	degBefore := testutil.ToFloat64(degenerate)

	r, err := s.Inverse(40, 0, 40.9, 1)
	require.NoError(t, err)
	assert.InDelta(t, 131088.055, r.S12, 1e-3)
	_, err = s.Inverse(10, 20, 10, 20)
	require.ErrorIs(t, err, bessel.ErrDegenerate)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, degBefore+1, testutil.ToFloat64(degenerate))

	directOK := solves.WithLabelValues(ProblemDirect, "ok")
	before := testutil.ToFloat64(directOK)
	_, err = s.Direct(40, 0, 45, 1e5)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(directOK))
}
