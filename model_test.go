package kinfit

import (
	"math"
	"testing"
)

// TestMichaelisMenten_HalfSaturation verifies v(Km) = Vmax/2 exactly.
func TestMichaelisMenten_HalfSaturation(t *testing.T) {
	cases := []struct {
		vmax, km float64
	}{
		{100, 50},
		{1, 1},
		{250.5, 3.25},
		{1e6, 1e-3},
	}
	for _, tc := range cases {
		got := MichaelisMenten(tc.km, tc.vmax, tc.km)
		want := tc.vmax / 2
		if got != want {
			t.Errorf("v(Km=%g) = %g, want exactly Vmax/2 = %g", tc.km, got, want)
		}
	}
}

// TestMichaelisMenten_Monotone verifies v is non-decreasing in S for S ≥ 0.
func TestMichaelisMenten_Monotone(t *testing.T) {
	concentrations := Linspace(0, 1e4, 500)
	AssertMonotoneVelocity(t, 100, 50, concentrations)
}

// TestMichaelisMenten_Asymptote verifies v → Vmax as S → ∞ and never
// exceeds it.
func TestMichaelisMenten_Asymptote(t *testing.T) {
	const vmax, km = 100.0, 50.0

	for _, s := range []float64{1e3, 1e6, 1e9, 1e12} {
		v := MichaelisMenten(s, vmax, km)
		if v > vmax {
			t.Errorf("v(%g) = %g exceeds Vmax = %g", s, v, vmax)
		}
		relGap := (vmax - v) / vmax
		expectedGap := km / (km + s)
		if math.Abs(relGap-expectedGap) > 1e-12 {
			t.Errorf("v(%g): relative gap %g, analytic gap %g", s, relGap, expectedGap)
		}
	}

	if v := MichaelisMenten(1e15, vmax, km); vmax-v > 1e-7 {
		t.Errorf("v(1e15) = %.12f has not approached Vmax = %g", v, vmax)
	}
}

// TestMichaelisMenten_ZeroSubstrate verifies v(0) = 0.
func TestMichaelisMenten_ZeroSubstrate(t *testing.T) {
	if v := MichaelisMenten(0, 100, 50); v != 0 {
		t.Errorf("v(0) = %g, want 0", v)
	}
}
