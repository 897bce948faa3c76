package kinfit

import (
	"fmt"
	"math/rand"
)

// Optics holds the physical constants of the absorbance measurement,
// used by both the generator and the velocity estimator.
type Optics struct {
	Epsilon    float64 // ε: molar absorptivity (M⁻¹·cm⁻¹ scaled to the assay units)
	PathLength float64 // l: optical path length (cm)
}

// Replicate is one independent measurement run at a fixed substrate
// concentration: an ordered absorbance-vs-time trace.
type Replicate struct {
	ID          int       // 1-based replicate identifier
	Times       []float64 // Non-decreasing, starting at or near t=0
	Absorbances []float64 // Same length as Times; may carry additive noise
}

// ConcentrationSeries groups every replicate measured at one substrate
// concentration. A replicate belongs to exactly one series.
type ConcentrationSeries struct {
	Concentration float64 // S: substrate concentration (µM), ≥ 0
	Replicates    []Replicate
}

// SimulationConfig controls synthetic data generation.
type SimulationConfig struct {
	VMax           float64   // True maximum velocity
	KM             float64   // True Michaelis constant
	Optics         Optics    // Beer-Lambert constants for the simulated detector
	NoiseLevel     float64   // Stddev of additive zero-mean Gaussian noise on absorbance
	Times          []float64 // Sampling grid, non-decreasing, starting at 0
	Concentrations []float64 // Substrate concentrations to simulate, each ≥ 0
	Replicates     int       // Replicates per concentration (≥ 1)
	Seed           int64     // RNG seed; a fixed seed reproduces the dataset exactly
}

// DefaultSimulationConfig returns a typical plate-reader assay:
// Vmax=100, Km=50, ε=1000, l=1, 2% absorbance noise, 100 samples over 10
// time units, five concentrations spanning 0.2·Km to 4·Km, 3 replicates.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		VMax:           100,
		KM:             50,
		Optics:         Optics{Epsilon: 1000, PathLength: 1},
		NoiseLevel:     0.02,
		Times:          Linspace(0, 10, 100),
		Concentrations: []float64{10, 20, 50, 100, 200},
		Replicates:     3,
		Seed:           1,
	}
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// n < 2 returns []float64{start}.
func Linspace(start, stop float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop // Exact endpoint regardless of rounding
	return out
}

// Simulate produces cfg.Replicates noisy absorbance traces for every
// substrate concentration in the config.
//
// The simulation is the zero-order approximation: velocity at concentration
// S is v(S) = Vmax·S/(Km+S) and is held constant over the whole window, so
// product concentration is P(t) = v(S)·t and absorbance is
//
//	A(t) = ε·l·v(S)·t + N(0, NoiseLevel²)
//
// Substrate depletion and detector saturation are not modeled. S = 0 yields
// v = 0 and therefore a flat zero-mean noisy trace.
//
// The result is deterministic for a fixed Seed.
func Simulate(cfg SimulationConfig) ([]ConcentrationSeries, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	series := make([]ConcentrationSeries, 0, len(cfg.Concentrations))

	for _, s := range cfg.Concentrations {
		v := MichaelisMenten(s, cfg.VMax, cfg.KM)

		cs := ConcentrationSeries{
			Concentration: s,
			Replicates:    make([]Replicate, 0, cfg.Replicates),
		}

		for r := 1; r <= cfg.Replicates; r++ {
			rep := Replicate{
				ID:          r,
				Times:       append([]float64(nil), cfg.Times...),
				Absorbances: make([]float64, len(cfg.Times)),
			}
			for i, t := range cfg.Times {
				clean := cfg.Optics.Epsilon * cfg.Optics.PathLength * v * t
				rep.Absorbances[i] = clean + cfg.NoiseLevel*rng.NormFloat64()
			}
			cs.Replicates = append(cs.Replicates, rep)
		}

		series = append(series, cs)
	}

	return series, nil
}

// Rows flattens simulated series into the flat-table schema
// {time, absorbance, substrate_concentration, replicate_id}, one row per
// sample, ready for WriteRows.
func Rows(series []ConcentrationSeries) []AssayRow {
	var rows []AssayRow
	for _, cs := range series {
		for _, rep := range cs.Replicates {
			for i, t := range rep.Times {
				rows = append(rows, AssayRow{
					Time:          t,
					Absorbance:    rep.Absorbances[i],
					Concentration: cs.Concentration,
					ReplicateID:   rep.ID,
				})
			}
		}
	}
	return rows
}

func (cfg SimulationConfig) validate() error {
	if len(cfg.Times) == 0 {
		return fmt.Errorf("%w: empty time grid", ErrConfiguration)
	}
	if cfg.Times[0] < 0 {
		return fmt.Errorf("%w: time grid starts at %g, must start at or near 0", ErrConfiguration, cfg.Times[0])
	}
	for i := 1; i < len(cfg.Times); i++ {
		if cfg.Times[i] < cfg.Times[i-1] {
			return fmt.Errorf("%w: time grid decreases at index %d", ErrConfiguration, i)
		}
	}
	if len(cfg.Concentrations) == 0 {
		return fmt.Errorf("%w: no substrate concentrations", ErrConfiguration)
	}
	for _, s := range cfg.Concentrations {
		if s < 0 {
			return fmt.Errorf("%w: negative substrate concentration %g", ErrConfiguration, s)
		}
	}
	if cfg.Replicates < 1 {
		return fmt.Errorf("%w: replicate count %d, need at least 1", ErrConfiguration, cfg.Replicates)
	}
	if cfg.NoiseLevel < 0 {
		return fmt.Errorf("%w: negative noise level %g", ErrConfiguration, cfg.NoiseLevel)
	}
	return nil
}
