package kinfit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/kinfit"
)

// TestBuildPlateGrid_MissingWells verifies dimensions are inferred and
// absent wells carry the NaN marker.
func TestBuildPlateGrid_MissingWells(t *testing.T) {
	wells := []kinfit.WellRecord{
		{WellID: "A1", Row: 1, Column: 1, Value: 0.10},
		{WellID: "B3", Row: 2, Column: 3, Value: 0.35},
		{WellID: "A2", Row: 1, Column: 2, Value: 0.20},
	}

	grid, err := kinfit.BuildPlateGrid(wells)
	require.NoError(t, err)

	assert.Equal(t, 2, grid.Rows)
	assert.Equal(t, 3, grid.Columns)

	assert.Equal(t, 0.10, grid.Values[0][0])
	assert.Equal(t, 0.20, grid.Values[0][1])
	assert.Equal(t, 0.35, grid.Values[1][2])

	for _, pos := range [][2]int{{0, 2}, {1, 0}, {1, 1}} {
		assert.True(t, math.IsNaN(grid.Values[pos[0]][pos[1]]),
			"well (%d,%d) should be the no-data marker", pos[0]+1, pos[1]+1)
	}
}

// TestBuildPlateGrid_Errors maps invalid layouts onto the sentinel
// taxonomy.
func TestBuildPlateGrid_Errors(t *testing.T) {
	cases := []struct {
		name  string
		wells []kinfit.WellRecord
		want  error
	}{
		{"Empty", nil, kinfit.ErrEmptyPlate},
		{"ZeroRow", []kinfit.WellRecord{{WellID: "X", Row: 0, Column: 1}}, kinfit.ErrInvalidWell},
		{"NegativeColumn", []kinfit.WellRecord{{WellID: "X", Row: 1, Column: -2}}, kinfit.ErrInvalidWell},
		{"Duplicate", []kinfit.WellRecord{
			{WellID: "A1", Row: 1, Column: 1, Value: 1},
			{WellID: "A1-again", Row: 1, Column: 1, Value: 2},
		}, kinfit.ErrDuplicateWell},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := kinfit.BuildPlateGrid(tc.wells)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestColorScale_Policies pins the three scaling policies on a plate of 21
// known values 0..20 with one missing well.
func TestColorScale_Policies(t *testing.T) {
	var wells []kinfit.WellRecord
	for i := 0; i < 20; i++ {
		wells = append(wells, kinfit.WellRecord{
			Row:    i/7 + 1,
			Column: i%7 + 1,
			Value:  float64(i),
		})
	}
	// Value 20 sits alone on row 4; the rest of that row stays missing and
	// must not perturb any policy.
	wells = append(wells, kinfit.WellRecord{Row: 4, Column: 1, Value: 20})

	grid, err := kinfit.BuildPlateGrid(wells)
	require.NoError(t, err)
	require.True(t, math.IsNaN(grid.Values[3][1]))

	t.Run("MinMax", func(t *testing.T) {
		r, err := grid.ColorScale(kinfit.ScaleMinMax)
		require.NoError(t, err)
		assert.Equal(t, kinfit.ScaleRange{Min: 0, Max: 20}, r)
	})

	t.Run("Percentile", func(t *testing.T) {
		r, err := grid.ColorScale(kinfit.ScalePercentile)
		require.NoError(t, err)
		// Nearest-rank on index (n-1)·p over 21 sorted values.
		assert.Equal(t, 1.0, r.Min)
		assert.Equal(t, 19.0, r.Max)
	})

	t.Run("MeanSD", func(t *testing.T) {
		r, err := grid.ColorScale(kinfit.ScaleMeanSD)
		require.NoError(t, err)
		// mean = 10, population sd = √(770/21)
		sd := math.Sqrt(770.0 / 21.0)
		assert.InDelta(t, 10-2*sd, r.Min, 1e-9)
		assert.InDelta(t, 10+2*sd, r.Max, 1e-9)
	})
}

// TestColorScale_AllMissing verifies a grid of only NaN wells is rejected.
func TestColorScale_AllMissing(t *testing.T) {
	grid, err := kinfit.BuildPlateGrid([]kinfit.WellRecord{
		{WellID: "C5", Row: 3, Column: 5, Value: 0.4},
	})
	require.NoError(t, err)

	// Blank out the single populated well.
	grid.Values[2][4] = math.NaN()

	_, err = grid.ColorScale(kinfit.ScalePercentile)
	assert.ErrorIs(t, err, kinfit.ErrEmptyPlate)
}

// TestColorScale_UnknownPolicy rejects a policy outside the enum.
func TestColorScale_UnknownPolicy(t *testing.T) {
	grid, err := kinfit.BuildPlateGrid([]kinfit.WellRecord{
		{WellID: "A1", Row: 1, Column: 1, Value: 1},
	})
	require.NoError(t, err)

	_, err = grid.ColorScale(kinfit.ScalePolicy(99))
	assert.Error(t, err)
}
