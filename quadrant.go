package bessel

import "math"

// quadrantRule places the principal value of an arctangent on the full circle.
type quadrantRule uint8

const (
	ruleAbs       quadrantRule = iota // |raw|
	rulePiMinus                       // π − |raw|
	rulePiPlus                        // π + |raw|
	ruleTwoPiMinus                    // 2π − |raw|
)

func (r quadrantRule) apply(raw float64) float64 {
	a := math.Abs(raw)
	switch r {
	case rulePiMinus:
		return math.Pi - a
	case rulePiPlus:
		return math.Pi + a
	case ruleTwoPiMinus:
		return 2*math.Pi - a
	default:
		return a
	}
}

// quadrantTable selects a rule from the signs of two deciding quantities.
// Zero, including negative zero, counts as positive.
type quadrantTable struct {
	pp, pn, nn, np quadrantRule // (+,+) (+,−) (−,−) (−,+)
}

// twoBranch depends only on the second key: c ≥ 0 → |raw|, c < 0 → π − |raw|.
var twoBranch = quadrantTable{
	pp: ruleAbs, np: ruleAbs,
	pn: rulePiMinus, nn: rulePiMinus,
}

var (
	// keyed on (sinA1·sinσ, tan λ)
	directLambdaTable = quadrantTable{
		pp: ruleAbs, pn: rulePiMinus, nn: ruleTwoPiMinus, np: rulePiPlus,
	}
	// keyed on (sinA1, tan A2); yields the reverse azimuth
	directAzi2Table = quadrantTable{
		pp: rulePiPlus, pn: ruleTwoPiMinus, nn: rulePiMinus, np: ruleAbs,
	}
	// keyed on (p, q)
	inverseAzi1Table = quadrantTable{
		pp: ruleAbs, pn: rulePiMinus, nn: rulePiPlus, np: ruleTwoPiMinus,
	}
	// keyed on (p, b1·cosλ − b2); yields the reverse azimuth
	inverseAzi2Table = quadrantTable{
		pp: rulePiPlus, pn: ruleTwoPiMinus, nn: ruleAbs, np: rulePiMinus,
	}
)

func nonNegative(x float64) bool {
	return x >= 0
}

// resolve returns raw, the principal value of an arctangent, moved into the
// quadrant the table assigns to the signs of k1 and k2.
func resolve(raw float64, t quadrantTable, k1, k2 float64) float64 {
	var r quadrantRule
	switch p1, p2 := nonNegative(k1), nonNegative(k2); {
	case p1 && p2:
		r = t.pp
	case p1:
		r = t.pn
	case p2:
		r = t.np
	default:
		r = t.nn
	}
	return r.apply(raw)
}

// tanSign is the sign of num/den taken from the operands, so that zeros and
// infinite ratios keep a definite sign.
func tanSign(num, den float64) float64 {
	if nonNegative(num) == nonNegative(den) {
		return 1
	}
	return -1
}

// atanRatio is atan(num/den) with den == 0 mapped to ±π/2.
func atanRatio(num, den float64) float64 {
	if den == 0 {
		if nonNegative(num) {
			return math.Pi / 2
		}
		return -math.Pi / 2
	}
	return math.Atan(num / den)
}
