package kinfit

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// WellRecord is one row of the plate-layout table consumed by the grid
// builder: a labelled well at a 1-based (row, column) position with its
// measured value.
type WellRecord struct {
	WellID string // Label such as "A1"; carried through, never parsed
	Row    int    // 1-based plate row
	Column int    // 1-based plate column
	Value  float64
}

// PlateGrid is a rows × columns view of per-well measurements. Wells with
// no record hold NaN as the explicit "no data" marker; NaN never enters a
// color-scale computation.
type PlateGrid struct {
	Rows, Columns int
	Values        [][]float64 // Values[r][c], 0-based; NaN = missing well
}

// ScalePolicy selects how the color-scale range is derived from the
// populated wells.
type ScalePolicy int

const (
	// ScaleMinMax uses the exact minimum and maximum well values.
	// Sensitive to single outlier wells.
	ScaleMinMax ScalePolicy = iota
	// ScalePercentile uses the 5th and 95th percentiles. Robust to
	// outliers; the recommended default.
	ScalePercentile
	// ScaleMeanSD uses mean ± 2 standard deviations (population).
	ScaleMeanSD
)

// ScaleRange is the scalar range a renderer maps onto its color ramp.
type ScaleRange struct {
	Min, Max float64
}

// BuildPlateGrid assembles well records into a dense grid. Dimensions are
// inferred from the largest row and column present. Records may arrive in
// any order.
//
// Fails with ErrEmptyPlate on an empty record set, ErrInvalidWell on
// non-positive coordinates, and ErrDuplicateWell when two records claim the
// same position.
func BuildPlateGrid(wells []WellRecord) (*PlateGrid, error) {
	if len(wells) == 0 {
		return nil, errors.Wrap(ErrEmptyPlate, "no well records")
	}

	maxRow, maxCol := 0, 0
	for _, w := range wells {
		if w.Row < 1 || w.Column < 1 {
			return nil, errors.Wrapf(ErrInvalidWell, "%s at (%d,%d)", w.WellID, w.Row, w.Column)
		}
		if w.Row > maxRow {
			maxRow = w.Row
		}
		if w.Column > maxCol {
			maxCol = w.Column
		}
	}

	values := make([][]float64, maxRow)
	for r := range values {
		values[r] = make([]float64, maxCol)
		for c := range values[r] {
			values[r][c] = math.NaN()
		}
	}

	for _, w := range wells {
		if !math.IsNaN(values[w.Row-1][w.Column-1]) {
			return nil, errors.Wrapf(ErrDuplicateWell, "%s at (%d,%d)", w.WellID, w.Row, w.Column)
		}
		values[w.Row-1][w.Column-1] = w.Value
	}

	return &PlateGrid{Rows: maxRow, Columns: maxCol, Values: values}, nil
}

// ColorScale computes the scalar range for the given policy over populated
// wells only. Fails with ErrEmptyPlate if every well is missing.
func (g *PlateGrid) ColorScale(policy ScalePolicy) (ScaleRange, error) {
	var populated []float64
	for _, row := range g.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				populated = append(populated, v)
			}
		}
	}
	if len(populated) == 0 {
		return ScaleRange{}, errors.Wrap(ErrEmptyPlate, "no populated wells")
	}

	switch policy {
	case ScaleMinMax:
		min, max := populated[0], populated[0]
		for _, v := range populated {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		return ScaleRange{Min: min, Max: max}, nil

	case ScalePercentile:
		sorted := append([]float64(nil), populated...)
		sort.Float64s(sorted)
		return ScaleRange{
			Min: percentile(sorted, 0.05),
			Max: percentile(sorted, 0.95),
		}, nil

	case ScaleMeanSD:
		var mean float64
		for _, v := range populated {
			mean += v
		}
		mean /= float64(len(populated))
		var variance float64
		for _, v := range populated {
			variance += (v - mean) * (v - mean)
		}
		sd := math.Sqrt(variance / float64(len(populated)))
		return ScaleRange{Min: mean - 2*sd, Max: mean + 2*sd}, nil

	default:
		return ScaleRange{}, errors.Errorf("kinfit: unknown scale policy %d", policy)
	}
}

// percentile returns the p-th percentile (0 ≤ p ≤ 1) of an already sorted
// slice, by nearest-rank on the (n-1)·p index.
func percentile(sorted []float64, p float64) float64 {
	index := int(float64(len(sorted)-1) * p)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
