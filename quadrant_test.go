package bessel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadrantRules(t *testing.T) {
	raw := -0.3
	assert.InDelta(t, 0.3, ruleAbs.apply(raw), 1e-15)
	assert.InDelta(t, math.Pi-0.3, rulePiMinus.apply(raw), 1e-15)
	assert.InDelta(t, math.Pi+0.3, rulePiPlus.apply(raw), 1e-15)
	assert.InDelta(t, 2*math.Pi-0.3, ruleTwoPiMinus.apply(raw), 1e-15)
}

// With the operands of the arctangent as keys, the inverse A1 table is a
// full-circle atan2.
func TestResolveMatchesAtan2(t *testing.T) {
	for _, c := range [][2]float64{
		{1, 2}, {1, -2}, {-1, -2}, {-1, 2},
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	} {
		y, x := c[0], c[1]
		want := math.Atan2(y, x)
		if want < 0 {
			want += 2 * math.Pi
		}
		got := resolve(atanRatio(y, x), inverseAzi1Table, y, x)
		assert.InDelta(t, want, got, 1e-15, "y=%v x=%v", y, x)
	}
}

func TestTwoBranch(t *testing.T) {
	raw := math.Atan(0.5)
	assert.Equal(t, raw, resolve(raw, twoBranch, 1, 1))
	assert.Equal(t, raw, resolve(raw, twoBranch, -1, 1))
	assert.Equal(t, math.Pi-raw, resolve(-raw, twoBranch, 1, -1))
	assert.Equal(t, math.Pi-raw, resolve(-raw, twoBranch, -1, -1))
	// cosσ = 0
	assert.Equal(t, math.Pi/2, resolve(atanRatio(1, 0), twoBranch, 1, 0))
}

func TestTablesDiffer(t *testing.T) {
	raw := 0.25
	var got []float64
	for _, tbl := range []quadrantTable{directLambdaTable, directAzi2Table, inverseAzi1Table, inverseAzi2Table} {
		got = append(got, resolve(raw, tbl, 1, -1))
	}
	assert.Equal(t, []float64{math.Pi - raw, 2*math.Pi - raw, math.Pi - raw, 2*math.Pi - raw}, got)
}

func TestSignedZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	assert.True(t, nonNegative(negZero))
	assert.Equal(t, 1.0, tanSign(negZero, 3))
	assert.Equal(t, -1.0, tanSign(negZero, -3))
	assert.Equal(t, -1.0, tanSign(-2, 0))
	assert.Equal(t, math.Pi/2, atanRatio(1, negZero))
	assert.Equal(t, -math.Pi/2, atanRatio(-1, 0))
}
