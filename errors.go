package kinfit

import "errors"

// Sentinel errors for the estimation pipeline. All failures are reported
// synchronously at the call that detects them; nothing is retried and no
// partial result accompanies an error.
var (
	// ErrConfiguration indicates an invalid physical constant or simulation
	// parameter (zero absorptivity, zero path length, empty time grid, ...).
	ErrConfiguration = errors.New("kinfit: invalid assay configuration")

	// ErrInsufficientData indicates a replicate has too few usable time
	// points to fit a slope (fewer than 2, or all at the same time).
	ErrInsufficientData = errors.New("kinfit: not enough time points for a slope fit")

	// ErrUnderdeterminedFit indicates fewer than 2 distinct substrate
	// concentrations were supplied for the 2-parameter fit.
	ErrUnderdeterminedFit = errors.New("kinfit: need at least 2 distinct substrate concentrations")

	// ErrFitConvergence indicates the solver hit its iteration cap without
	// converging, or the normal matrix is singular and no covariance can be
	// estimated (e.g. all concentrations identical or zero).
	ErrFitConvergence = errors.New("kinfit: nonlinear fit did not converge")

	// ErrMissingColumn indicates a required column is absent from an input
	// table header.
	ErrMissingColumn = errors.New("kinfit: required column missing from table header")

	// ErrInvalidRow indicates a table row that violates the input schema
	// (negative time or concentration, replicate id < 1, non-numeric field).
	ErrInvalidRow = errors.New("kinfit: table row violates input schema")

	// ErrEmptyPlate indicates a plate grid with no wells, or a color-scale
	// request against a plate where every well is missing.
	ErrEmptyPlate = errors.New("kinfit: plate has no well data")

	// ErrDuplicateWell indicates two well records claim the same
	// (row, column) position.
	ErrDuplicateWell = errors.New("kinfit: duplicate well position")

	// ErrInvalidWell indicates a well record with out-of-range coordinates
	// (row or column < 1).
	ErrInvalidWell = errors.New("kinfit: well coordinates must be positive")
)
