package bessel

import (
	"math"
	"testing"
)

func TestWrap(t *testing.T) {
	if wrap180(-181) != 179 {
		t.Fatal()
	}
	if wrap180(+181) != -179 {
		t.Fatal()
	}
	if wrap180(180) != -180 {
		t.Fatal()
	}
	if wrap360(-90) != 270 {
		t.Fatal()
	}
	if wrap360(720) != 0 {
		t.Fatal()
	}
	if wrap360(math.Copysign(0, -1)) != 0 {
		t.Fatal()
	}
	if !eqish(wrapPi(3*math.Pi/2), -math.Pi/2, 12) {
		t.Fatal()
	}
	if wrapPi(math.Pi) != -math.Pi {
		t.Fatal()
	}
}

func TestUnits(t *testing.T) {
	if !eqish(toDegrees(toRadians(123.456)), 123.456, 12) {
		t.Fatal()
	}
	if !eqish(toRadians(180), math.Pi, 15) {
		t.Fatal()
	}
	if arcsecPerRadian != 206265 {
		t.Fatal()
	}
}

func TestSeparation(t *testing.T) {
	if separation(0.3, 0.3, 0) != 0 {
		t.Fatal()
	}
	if !eqish(separation(0, 0, math.Pi/2), math.Pi/2, 12) {
		t.Fatal()
	}
	if degeneracy(0.1, 0.2, 0.3) != 0 {
		t.Fatal()
	}
}
