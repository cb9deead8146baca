// Package dms converts between decimal degrees and degrees, minutes and
// seconds, the way angles are entered and displayed next to the solvers.
package dms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrSyntax = errors.New("dms: invalid syntax")
	ErrRange  = errors.New("dms: value out of range")
)

// MaxSeconds is the largest seconds value accepted on entry.
const MaxSeconds = 59.9999

// Kind selects the legal range of an angle.
type Kind int

const (
	Latitude  Kind = iota + 1 // [-90, 90]
	Longitude                 // [-180, 180]
	Azimuth                   // [0, 360]
)

func (k Kind) String() string {
	switch k {
	case Latitude:
		return "latitude"
	case Longitude:
		return "longitude"
	case Azimuth:
		return "azimuth"
	}
	return "angle"
}

func (k Kind) limits() (lo, hi float64) {
	switch k {
	case Latitude:
		return -90, 90
	case Longitude:
		return -180, 180
	default:
		return 0, 360
	}
}

// Angle is a sexagesimal angle. The sign is kept apart from the degrees so
// that angles such as -0°30' are representable.
type Angle struct {
	Neg bool
	Deg int
	Min int
	Sec float64
}

// carryEps absorbs the rounding error of the split, so that 40.9 becomes
// 40°54'0'' rather than 40°53'59.999999999995''.
const carryEps = 1e-9 // seconds

// FromDecimal splits decimal degrees. Degrees and minutes are truncated,
// the seconds carry the remainder.
func FromDecimal(d float64) Angle {
	a := math.Abs(d)
	deg := math.Trunc(a)
	rem := (a - deg) * 60
	mins := math.Trunc(rem)
	sec := (rem - mins) * 60
	if 60-sec < carryEps {
		sec = 0
		mins++
	}
	if mins >= 60 {
		mins -= 60
		deg++
	}
	return Angle{
		Neg: d < 0,
		Deg: int(deg),
		Min: int(mins),
		Sec: sec,
	}
}

// Decimal returns the angle in decimal degrees.
func (a Angle) Decimal() float64 {
	d := (float64(a.Deg)*3600 + float64(a.Min)*60 + a.Sec) / 3600
	if a.Neg {
		return -d
	}
	return d
}

// String formats the angle as D°M'S'' with four decimals of seconds.
func (a Angle) String() string {
	deg, mins := a.Deg, a.Min
	sec := math.Round(a.Sec*1e4) / 1e4
	if sec >= 60 {
		sec -= 60
		mins++
	}
	if mins >= 60 {
		mins -= 60
		deg++
	}
	sign := ""
	if a.Neg && (deg != 0 || mins != 0 || sec != 0) {
		sign = "-"
	}
	return fmt.Sprintf("%s%d°%d'%s''", sign, deg, mins, strconv.FormatFloat(sec, 'f', 4, 64))
}

// Validate checks the fields against the entry ranges and the whole angle
// against the range of kind.
func (a Angle) Validate(kind Kind) error {
	switch {
	case a.Deg < 0:
		return fmt.Errorf("%w: %s degrees %d is negative, use Neg", ErrRange, kind, a.Deg)
	case a.Min < 0 || a.Min > 59:
		return fmt.Errorf("%w: %s minutes %d not in [0, 59]", ErrRange, kind, a.Min)
	case !(a.Sec >= 0 && a.Sec <= MaxSeconds):
		return fmt.Errorf("%w: %s seconds %v not in [0, %v]", ErrRange, kind, a.Sec, MaxSeconds)
	}
	lo, hi := kind.limits()
	if d := a.Decimal(); d < lo || d > hi {
		return fmt.Errorf("%w: %s %v not in [%v, %v]", ErrRange, kind, d, lo, hi)
	}
	return nil
}

// Parse reads an angle written as decimal degrees ("-33.5"), degrees and
// decimal minutes ("33 30.5"), or degrees, minutes and seconds. Fields may
// be separated by blanks, colons or the °, ', '' and " marks. A trailing or
// leading hemisphere letter N, S, E or W sets the sign.
func Parse(s string) (Angle, error) {
	a, _, err := parse(s)
	return a, err
}

// parse also returns the decimal value of inputs without a seconds field,
// or NaN. Such inputs are checked on that value, not on split seconds.
func parse(s string) (Angle, float64, error) {
	nan := math.NaN()
	s = strings.TrimSpace(s)
	neg := false
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'S', 's', 'W', 'w':
			neg = true
			s = s[:n-1]
		case 'N', 'n', 'E', 'e':
			s = s[:n-1]
		}
	}
	if len(s) > 0 {
		switch s[0] {
		case 'S', 's', 'W', 'w':
			neg = true
			s = s[1:]
		case 'N', 'n', 'E', 'e':
			s = s[1:]
		}
	}
	fields := strings.Fields(strings.NewReplacer(
		"°", " ", "''", " ", "'", " ", "\"", " ", "′", " ", "″", " ", ":", " ",
	).Replace(s))
	if len(fields) == 0 || len(fields) > 3 {
		return Angle{}, nan, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if strings.HasPrefix(fields[0], "-") {
		neg = !neg
		fields[0] = fields[0][1:]
	} else {
		fields[0] = strings.TrimPrefix(fields[0], "+")
	}

	var a Angle
	dec := nan
	switch len(fields) {
	case 1:
		d, err := parseUnsigned(fields[0])
		if err != nil {
			return Angle{}, nan, err
		}
		a, dec = FromDecimal(d), d
	case 2:
		deg, err := parseInt(fields[0])
		if err != nil {
			return Angle{}, nan, err
		}
		m, err := parseUnsigned(fields[1])
		if err != nil {
			return Angle{}, nan, err
		}
		if m >= 60 {
			return Angle{}, nan, fmt.Errorf("%w: minutes %v not in [0, 60)", ErrRange, m)
		}
		a, dec = Angle{Deg: deg, Min: int(m), Sec: (m - math.Trunc(m)) * 60}, float64(deg)+m/60
	case 3:
		deg, err := parseInt(fields[0])
		if err != nil {
			return Angle{}, nan, err
		}
		mins, err := parseInt(fields[1])
		if err != nil {
			return Angle{}, nan, err
		}
		sec, err := parseUnsigned(fields[2])
		if err != nil {
			return Angle{}, nan, err
		}
		a = Angle{Deg: deg, Min: mins, Sec: sec}
	}
	a.Neg = neg
	if neg {
		dec = -dec
	}
	return a, dec, nil
}

// ParseDecimal parses s, validates it as kind and returns decimal degrees.
// Decimal input is returned as written.
func ParseDecimal(s string, kind Kind) (float64, error) {
	a, dec, err := parse(s)
	if err != nil {
		return 0, err
	}
	if !math.IsNaN(dec) {
		lo, hi := kind.limits()
		if dec < lo || dec > hi {
			return 0, fmt.Errorf("%w: %s %v not in [%v, %v]", ErrRange, kind, dec, lo, hi)
		}
		return dec, nil
	}
	if err := a.Validate(kind); err != nil {
		return 0, err
	}
	return a.Decimal(), nil
}

// FormatMeters formats a distance the way results are displayed.
func FormatMeters(s float64) string {
	return strconv.FormatFloat(s, 'f', 6, 64) + "m"
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrSyntax, s)
	}
	return v, nil
}

func parseUnsigned(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, s)
	}
	return v, nil
}
