package kinfit

import (
	"fmt"
	"math"
)

// Guess is the starting point for the nonlinear fit. The solver is local:
// a guess far from the truth can land in a poor minimum or fail to converge,
// and the package does not attempt to repair that automatically.
type Guess struct {
	VMax float64
	KM   float64
}

// FitConfig bounds the Levenberg-Marquardt iteration.
type FitConfig struct {
	MaxIterations int     // Hard cap on accepted+rejected steps
	Tolerance     float64 // Relative step size below which the fit is converged
}

// DefaultFitConfig returns sensible solver bounds.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		MaxIterations: 200,
		Tolerance:     1e-10,
	}
}

// FitResult holds the fitted Michaelis-Menten parameters and the regression
// evidence behind them.
//
// Neither VMax nor KM is clipped to be positive. Both must be positive for
// the fit to be physically meaningful, but an out-of-range estimate from
// noisy data is a legitimate, reportable outcome; callers judge plausibility.
type FitResult struct {
	VMax       float64       // Fitted maximum velocity
	KM         float64       // Fitted Michaelis constant
	VMaxStdErr float64       // Estimated standard error of VMax
	KMStdErr   float64       // Estimated standard error of KM
	Covariance [2][2]float64 // Parameter covariance, order (VMax, KM)
	SSR        float64       // Sum of squared residuals at the optimum
	RSquared   float64       // 1 - SSR/TSS over the observed velocities
	Iterations int           // Levenberg-Marquardt iterations spent
}

// Fit estimates (VMax, KM) from paired (S, v0) observations with default
// solver bounds. See FitWithConfig.
func Fit(obs []VelocityObservation, guess Guess) (FitResult, error) {
	return FitWithConfig(obs, guess, DefaultFitConfig())
}

// FitWithConfig performs nonlinear least squares of the Michaelis-Menten
// model against the observed initial velocities:
//
//	minimize Σᵢ (v0ᵢ - VMax·Sᵢ/(Km+Sᵢ))²  over (VMax, Km)
//
// using damped Gauss-Newton (Levenberg-Marquardt) with the analytic Jacobian
//
//	∂v/∂VMax = S/(Km+S)        ∂v/∂Km = -VMax·S/(Km+S)²
//
// The normal equations are 2×2 and solved in closed form. Iteration stops on
// a relative step below cfg.Tolerance or at cfg.MaxIterations.
//
// The function is pure and stateless. Failure modes:
//
//   - ErrUnderdeterminedFit: fewer than 2 distinct concentrations (two free
//     parameters need two independent observations)
//   - ErrFitConvergence: iteration cap reached without convergence, the
//     model was driven onto its pole (Km = -S), or the normal matrix at the
//     optimum is singular so no covariance can be estimated
//
// No partial result is returned on failure.
func FitWithConfig(obs []VelocityObservation, guess Guess, cfg FitConfig) (FitResult, error) {
	distinct := make(map[float64]struct{}, len(obs))
	for _, o := range obs {
		distinct[o.Concentration] = struct{}{}
	}
	if len(distinct) < 2 {
		return FitResult{}, fmt.Errorf("%w: got %d", ErrUnderdeterminedFit, len(distinct))
	}

	n := len(obs)
	vmax, km := guess.VMax, guess.KM

	ssr, err := residualSum(obs, vmax, km)
	if err != nil {
		return FitResult{}, err
	}

	damping := 1e-3
	converged := false
	iterations := 0

	for iterations < cfg.MaxIterations {
		iterations++

		a11, a12, a22, g1, g2, err := normalEquations(obs, vmax, km)
		if err != nil {
			return FitResult{}, err
		}
		if a11 == 0 || a22 == 0 {
			// A zero diagonal cannot be damped into invertibility
			// (e.g. every concentration is zero).
			return FitResult{}, fmt.Errorf("%w: singular normal matrix", ErrFitConvergence)
		}

		// Reject steps until the damped system yields an improvement.
		accepted := false
		for damping <= 1e12 {
			d11 := a11 * (1 + damping)
			d22 := a22 * (1 + damping)
			det := d11*d22 - a12*a12
			if det == 0 {
				damping *= 10
				continue
			}

			stepV := (g1*d22 - a12*g2) / det
			stepK := (d11*g2 - g1*a12) / det

			trialSSR, err := residualSum(obs, vmax+stepV, km+stepK)
			if err != nil || trialSSR > ssr || math.IsNaN(trialSSR) || math.IsInf(trialSSR, 0) {
				damping *= 10
				continue
			}

			vmax += stepV
			km += stepK
			ssr = trialSSR
			damping = math.Max(damping/10, 1e-12)
			accepted = true

			if math.Abs(stepV) <= cfg.Tolerance*(math.Abs(vmax)+cfg.Tolerance) &&
				math.Abs(stepK) <= cfg.Tolerance*(math.Abs(km)+cfg.Tolerance) {
				converged = true
			}
			break
		}

		if !accepted {
			// Damping exhausted without any downhill step: the current
			// point is as good as this solver will find.
			converged = true
		}
		if converged {
			break
		}
	}

	if !converged {
		return FitResult{}, fmt.Errorf("%w: iteration cap %d reached",
			ErrFitConvergence, cfg.MaxIterations)
	}

	// Covariance from the undamped normal matrix at the optimum:
	// cov = σ²·(JᵀJ)⁻¹ with σ² = SSR/(n-2).
	a11, a12, a22, _, _, err := normalEquations(obs, vmax, km)
	if err != nil {
		return FitResult{}, err
	}
	det := a11*a22 - a12*a12
	if det <= 0 || math.Abs(det) < 1e-12*math.Abs(a11*a22) {
		return FitResult{}, fmt.Errorf("%w: covariance not estimable (singular Jacobian)",
			ErrFitConvergence)
	}

	sigma2 := 0.0
	if n > 2 {
		sigma2 = ssr / float64(n-2)
	}
	cov := [2][2]float64{
		{sigma2 * a22 / det, -sigma2 * a12 / det},
		{-sigma2 * a12 / det, sigma2 * a11 / det},
	}

	var meanV float64
	for _, o := range obs {
		meanV += o.V0
	}
	meanV /= float64(n)
	var tss float64
	for _, o := range obs {
		tss += (o.V0 - meanV) * (o.V0 - meanV)
	}
	rsq := 1.0
	if tss > 0 {
		rsq = 1 - ssr/tss
	}

	return FitResult{
		VMax:       vmax,
		KM:         km,
		VMaxStdErr: math.Sqrt(cov[0][0]),
		KMStdErr:   math.Sqrt(cov[1][1]),
		Covariance: cov,
		SSR:        ssr,
		RSquared:   rsq,
		Iterations: iterations,
	}, nil
}

// Predict returns the modeled velocity at concentration s under the fitted
// parameters.
func (r FitResult) Predict(s float64) float64 {
	return MichaelisMenten(s, r.VMax, r.KM)
}

// residualSum evaluates Σ(v0 - model)² at the given parameters, failing if
// any observation sits on the model's pole.
func residualSum(obs []VelocityObservation, vmax, km float64) (float64, error) {
	var ssr float64
	for _, o := range obs {
		if km+o.Concentration == 0 {
			return 0, fmt.Errorf("%w: model pole at Km = %g", ErrFitConvergence, km)
		}
		r := o.V0 - MichaelisMenten(o.Concentration, vmax, km)
		ssr += r * r
	}
	return ssr, nil
}

// normalEquations accumulates JᵀJ (a11, a12, a22) and Jᵀr (g1, g2) for the
// current parameters.
func normalEquations(obs []VelocityObservation, vmax, km float64) (a11, a12, a22, g1, g2 float64, err error) {
	for _, o := range obs {
		den := km + o.Concentration
		if den == 0 {
			return 0, 0, 0, 0, 0, fmt.Errorf("%w: model pole at Km = %g", ErrFitConvergence, km)
		}
		j1 := o.Concentration / den
		j2 := -vmax * o.Concentration / (den * den)
		r := o.V0 - vmax*j1

		a11 += j1 * j1
		a12 += j1 * j2
		a22 += j2 * j2
		g1 += j1 * r
		g2 += j2 * r
	}
	return a11, a12, a22, g1, g2, nil
}
