package kinfit

import (
	"math"
	"testing"
)

// AssertRecoversKinetics verifies a fit landed within tol of the true
// parameters (absolute tolerance, same units as the parameters).
func AssertRecoversKinetics(t *testing.T, result FitResult, trueVMax, trueKM, tol float64) {
	t.Helper()

	if math.Abs(result.VMax-trueVMax) > tol {
		t.Errorf("Vmax = %.4f (expected %.4f ± %.4f)", result.VMax, trueVMax, tol)
	} else {
		t.Logf("✓ Vmax = %.4f ± %.4f (true: %.4f)", result.VMax, result.VMaxStdErr, trueVMax)
	}

	if math.Abs(result.KM-trueKM) > tol {
		t.Errorf("Km = %.4f (expected %.4f ± %.4f)", result.KM, trueKM, tol)
	} else {
		t.Logf("✓ Km = %.4f ± %.4f (true: %.4f)", result.KM, result.KMStdErr, trueKM)
	}
}

// AssertPhysicallyPlausible verifies both fitted parameters are positive.
// The fitter itself never enforces this - plausibility is a caller judgment,
// and this helper is how tests spell that judgment.
func AssertPhysicallyPlausible(t *testing.T, result FitResult) {
	t.Helper()

	if result.VMax <= 0 {
		t.Errorf("Vmax = %.4f is not positive: fit is not physically meaningful", result.VMax)
	}
	if result.KM <= 0 {
		t.Errorf("Km = %.4f is not positive: fit is not physically meaningful", result.KM)
	}
	if result.VMax > 0 && result.KM > 0 {
		t.Logf("✓ Physically plausible: Vmax = %.4f > 0, Km = %.4f > 0", result.VMax, result.KM)
	}
}

// AssertMonotoneVelocity verifies the model is non-decreasing in S over the
// given concentrations (which must be sorted ascending).
func AssertMonotoneVelocity(t *testing.T, vmax, km float64, concentrations []float64) {
	t.Helper()

	for i := 1; i < len(concentrations); i++ {
		lo := MichaelisMenten(concentrations[i-1], vmax, km)
		hi := MichaelisMenten(concentrations[i], vmax, km)
		if hi < lo {
			t.Errorf("v(%g) = %.6f < v(%g) = %.6f: velocity decreased with substrate",
				concentrations[i], hi, concentrations[i-1], lo)
		}
	}
	t.Logf("✓ Monotone: v(S) non-decreasing over %d concentrations", len(concentrations))
}

// PrintFitAnalysis dumps a observed-vs-predicted table to the test log.
func PrintFitAnalysis(t *testing.T, obs []VelocityObservation, result FitResult) {
	t.Helper()

	t.Logf("\n=== Michaelis-Menten Fit ===")
	t.Logf("Vmax = %.4f ± %.4f", result.VMax, result.VMaxStdErr)
	t.Logf("Km   = %.4f ± %.4f", result.KM, result.KMStdErr)
	t.Logf("SSR = %.6g, R² = %.4f, iterations = %d", result.SSR, result.RSquared, result.Iterations)

	t.Logf("\n  S           v0 (obs)      v0 (fit)      stddev")
	t.Logf("  ----------  ------------  ------------  ----------")
	for _, o := range obs {
		t.Logf("  %-10.4g  %12.4f  %12.4f  %10.4f",
			o.Concentration, o.V0, result.Predict(o.Concentration), o.StdDev)
	}
}
