// Package kinfit estimates enzyme kinetic parameters from absorbance data.
//
// # Overview
//
// kinfit turns plate-reader absorbance time series into Michaelis-Menten
// parameters. The pipeline has three independent stages:
//
//	Generator → Velocity Estimator → Fitter
//
// or, for measured data:
//
//	External table → Velocity Estimator → Fitter
//
// The package components:
//
//   - model.go      - The Michaelis-Menten velocity law
//   - generate.go   - Synthetic absorbance data (testing/demo source)
//   - velocity.go   - Initial velocity (v0) estimation per replicate
//   - fit.go        - Nonlinear Michaelis-Menten regression
//   - table.go      - Flat-table import/export and regrouping
//   - plate.go      - Plate-grid assembly and color-scale policies
//   - assertions.go - Test helpers for kinetic recovery properties
//
// Each stage is a pure function of explicit configuration. There is no
// package-level state: epsilon, path length, and the true parameters travel
// inside Optics, SimulationConfig, and Guess values, so every stage is
// independently testable and composable.
//
// # The model
//
// Reaction velocity follows the Michaelis-Menten law:
//
//	v(S) = Vmax·S / (Km + S)
//
// Where:
//   - Vmax: asymptotic maximum velocity (v → Vmax as S → ∞)
//   - Km: substrate concentration at half-maximal velocity (v(Km) = Vmax/2)
//   - S: substrate concentration (µM)
//
// Absorbance follows the Beer-Lambert relation A = ε·l·[P]. The simulation
// assumes velocity is constant over the sampled window (zero-order
// approximation, valid only while substrate is not significantly depleted)
// and a strictly linear Beer-Lambert response with no detector saturation.
// Both are modeling limitations carried deliberately, not defects.
//
// # Quick start
//
// Simulate an assay, estimate initial velocities, and fit:
//
//	cfg := kinfit.DefaultSimulationConfig()
//	series, err := kinfit.Simulate(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	obs, err := kinfit.EstimateSeries(series, cfg.Optics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := kinfit.Fit(obs, kinfit.Guess{VMax: 80, KM: 30})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Vmax = %.2f ± %.2f\n", result.VMax, result.VMaxStdErr)
//	fmt.Printf("Km   = %.2f ± %.2f\n", result.KM, result.KMStdErr)
//
// # Fitting
//
// Fit minimizes the sum of squared residuals between observed and modeled
// v0 over (Vmax, Km) using a damped Gauss-Newton (Levenberg-Marquardt)
// iteration with an analytic Jacobian. The solver is local: fit quality and
// convergence depend on the initial guess, and a poor guess is a documented
// failure mode rather than something the package repairs automatically.
// Results are not clipped to be positive - a negative Km from noisy data is
// a possible, reportable outcome, and callers must judge physical
// plausibility themselves.
//
// # Errors
//
//   - ErrConfiguration: invalid physical constants or simulation parameters
//   - ErrInsufficientData: fewer than 2 usable time points for a slope
//   - ErrUnderdeterminedFit: fewer than 2 distinct substrate concentrations
//   - ErrFitConvergence: iteration cap reached or singular normal matrix
//
// A failed fit returns no FitResult at all; best-effort parameter estimates
// are never propagated.
//
// # Testing
//
// Use assertions to validate recovery properties:
//
//	func TestAssay(t *testing.T) {
//	    obs := estimateFromSimulation(...)
//	    result, err := kinfit.Fit(obs, guess)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    kinfit.AssertRecoversKinetics(t, result, 100, 50, 5.0)
//	}
//
// # See also
//
//   - examples/assay-demo - end-to-end simulate → estimate → fit → export
package kinfit
