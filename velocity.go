package kinfit

import (
	"fmt"
	"math"
)

// ReplicateVelocity is the initial-velocity estimate for a single replicate.
type ReplicateVelocity struct {
	ID       int     // Replicate identifier, copied from the input trace
	V0       float64 // Slope of [P] vs t over the full supplied time range
	RSquared float64 // Linearity of the trace (1.0 = perfectly linear)
}

// VelocityObservation pairs one substrate concentration with the initial
// velocity evidence gathered from its replicates. It is the unit the fitter
// consumes.
type VelocityObservation struct {
	Concentration float64             // S (µM)
	V0            float64             // Mean v0 across replicates
	StdDev        float64             // Population stddev of replicate v0 values
	Replicates    []ReplicateVelocity // Per-replicate estimates, in input order
}

// EstimateVelocity converts one replicate's absorbance trace to product
// concentration via Beer-Lambert, [P](t) = A(t)/(ε·l), then fits a
// first-degree polynomial of [P] against t by ordinary least squares.
// The slope is the initial velocity v0.
//
// No smoothing, outlier rejection, or windowing is applied: the full
// supplied time range enters the regression. At long times this makes v0
// sensitive to substrate depletion - that sensitivity is inherent to the
// zero-order assumption and is surfaced through RSquared rather than
// corrected.
//
// Returns ErrConfiguration if either optical constant is zero, and
// ErrInsufficientData if the trace has fewer than 2 points or no spread in
// time.
func EstimateVelocity(rep Replicate, optics Optics) (ReplicateVelocity, error) {
	if optics.Epsilon == 0 {
		return ReplicateVelocity{}, fmt.Errorf("%w: molar absorptivity is zero", ErrConfiguration)
	}
	if optics.PathLength == 0 {
		return ReplicateVelocity{}, fmt.Errorf("%w: path length is zero", ErrConfiguration)
	}
	n := len(rep.Times)
	if n != len(rep.Absorbances) {
		return ReplicateVelocity{}, fmt.Errorf("%w: %d times vs %d absorbances",
			ErrInsufficientData, n, len(rep.Absorbances))
	}
	if n < 2 {
		return ReplicateVelocity{}, fmt.Errorf("%w: got %d points, need at least 2",
			ErrInsufficientData, n)
	}

	// OLS slope of p = a + v0·t via centered sums.
	scale := 1.0 / (optics.Epsilon * optics.PathLength)

	var meanT, meanP float64
	for i, t := range rep.Times {
		meanT += t
		meanP += rep.Absorbances[i] * scale
	}
	meanT /= float64(n)
	meanP /= float64(n)

	var sTT, sTP float64
	for i, t := range rep.Times {
		dt := t - meanT
		dp := rep.Absorbances[i]*scale - meanP
		sTT += dt * dt
		sTP += dt * dp
	}
	if sTT == 0 {
		return ReplicateVelocity{}, fmt.Errorf("%w: all samples at t=%g",
			ErrInsufficientData, rep.Times[0])
	}

	v0 := sTP / sTT
	intercept := meanP - v0*meanT

	// R² against the fitted line. A flat trace fitted exactly (clean S=0
	// data) has no variance to explain; call that a perfect fit.
	var ssRes, ssTot float64
	for i, t := range rep.Times {
		p := rep.Absorbances[i] * scale
		res := p - (intercept + v0*t)
		ssRes += res * res
		ssTot += (p - meanP) * (p - meanP)
	}
	rsq := 1.0
	if ssTot > 0 {
		rsq = 1 - ssRes/ssTot
	}

	return ReplicateVelocity{ID: rep.ID, V0: v0, RSquared: rsq}, nil
}

// EstimateSeries estimates v0 for every replicate of every concentration
// series and aggregates per concentration.
//
// V0 is the arithmetic mean across a series' replicates and StdDev is their
// population standard deviation (divide by n, not n-1). With a single
// replicate the spread is undefined and StdDev is reported as exactly 0,
// never omitted, so downstream consumers see a uniform shape.
//
// Each v0 is computed only from its own replicate's trace; data is never
// mixed across concentrations.
func EstimateSeries(series []ConcentrationSeries, optics Optics) ([]VelocityObservation, error) {
	obs := make([]VelocityObservation, 0, len(series))

	for _, cs := range series {
		if len(cs.Replicates) == 0 {
			return nil, fmt.Errorf("%w: concentration %g has no replicates",
				ErrInsufficientData, cs.Concentration)
		}

		o := VelocityObservation{
			Concentration: cs.Concentration,
			Replicates:    make([]ReplicateVelocity, 0, len(cs.Replicates)),
		}

		for _, rep := range cs.Replicates {
			rv, err := EstimateVelocity(rep, optics)
			if err != nil {
				return nil, fmt.Errorf("concentration %g, replicate %d: %w",
					cs.Concentration, rep.ID, err)
			}
			o.Replicates = append(o.Replicates, rv)
		}

		var sum float64
		for _, rv := range o.Replicates {
			sum += rv.V0
		}
		o.V0 = sum / float64(len(o.Replicates))

		var variance float64
		for _, rv := range o.Replicates {
			d := rv.V0 - o.V0
			variance += d * d
		}
		o.StdDev = math.Sqrt(variance / float64(len(o.Replicates)))

		obs = append(obs, o)
	}

	return obs, nil
}
