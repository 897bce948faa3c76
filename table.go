package kinfit

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// AssayRow is one sample of the flat-table exchange schema shared by the
// export writer and the external-data reader.
type AssayRow struct {
	Time          float64 // ≥ 0
	Absorbance    float64
	Concentration float64 // Substrate concentration, ≥ 0
	ReplicateID   int     // ≥ 1
}

// Column names of the flat-table schema, in written order.
var tableColumns = []string{"time", "absorbance", "substrate_concentration", "replicate_id"}

// WriteRows writes rows as a delimited text table with a header row, one
// line per (concentration, replicate, time-sample). The caller owns w and
// closes it on every exit path.
func WriteRows(w io.Writer, rows []AssayRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(tableColumns); err != nil {
		return errors.Wrap(err, "kinfit: writing table header")
	}
	for i, row := range rows {
		record := []string{
			strconv.FormatFloat(row.Time, 'g', -1, 64),
			strconv.FormatFloat(row.Absorbance, 'g', -1, 64),
			strconv.FormatFloat(row.Concentration, 'g', -1, 64),
			strconv.Itoa(row.ReplicateID),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "kinfit: writing table row %d", i+1)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "kinfit: flushing table")
}

// ReadRows parses a delimited text table produced by WriteRows or by an
// external plate reader. Columns are located by header name and may appear
// in any order; extra columns are ignored. Rows arrive in arbitrary order
// and are returned as read - use GroupRows before estimation.
//
// Schema violations (negative time or concentration, replicate id < 1,
// non-numeric fields) are reported against ErrInvalidRow with the offending
// line number; a missing required column is reported against
// ErrMissingColumn.
func ReadRows(r io.Reader) ([]AssayRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrMissingColumn, "empty table")
	}
	if err != nil {
		return nil, errors.Wrap(err, "kinfit: reading table header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range tableColumns {
		if _, ok := index[name]; !ok {
			return nil, errors.Wrap(ErrMissingColumn, name)
		}
	}

	var rows []AssayRow
	line := 1 // header was line 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "kinfit: reading table line %d", line)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRow(record []string, index map[string]int) (AssayRow, error) {
	field := func(name string) (float64, error) {
		i := index[name]
		if i >= len(record) {
			return 0, errors.Wrapf(ErrInvalidRow, "missing %s field", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidRow, "%s=%q is not numeric", name, record[i])
		}
		return v, nil
	}

	t, err := field("time")
	if err != nil {
		return AssayRow{}, err
	}
	if t < 0 {
		return AssayRow{}, errors.Wrapf(ErrInvalidRow, "time=%g is negative", t)
	}

	a, err := field("absorbance")
	if err != nil {
		return AssayRow{}, err
	}

	s, err := field("substrate_concentration")
	if err != nil {
		return AssayRow{}, err
	}
	if s < 0 {
		return AssayRow{}, errors.Wrapf(ErrInvalidRow, "substrate_concentration=%g is negative", s)
	}

	idRaw, err := field("replicate_id")
	if err != nil {
		return AssayRow{}, err
	}
	id := int(idRaw)
	if float64(id) != idRaw || id < 1 {
		return AssayRow{}, errors.Wrapf(ErrInvalidRow, "replicate_id=%v must be an integer ≥ 1", record[index["replicate_id"]])
	}

	return AssayRow{Time: t, Absorbance: a, Concentration: s, ReplicateID: id}, nil
}

// GroupRows regroups flat rows by (substrate_concentration, replicate_id)
// into concentration series ready for EstimateSeries. The output is
// deterministic regardless of input order: series sorted by ascending
// concentration, replicates by ascending id, samples by non-decreasing time.
func GroupRows(rows []AssayRow) []ConcentrationSeries {
	type key struct {
		s  float64
		id int
	}
	groups := make(map[key][]AssayRow)
	for _, row := range rows {
		k := key{s: row.Concentration, id: row.ReplicateID}
		groups[k] = append(groups[k], row)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].s != keys[j].s {
			return keys[i].s < keys[j].s
		}
		return keys[i].id < keys[j].id
	})

	var series []ConcentrationSeries
	for _, k := range keys {
		samples := groups[k]
		sort.SliceStable(samples, func(i, j int) bool {
			return samples[i].Time < samples[j].Time
		})

		rep := Replicate{
			ID:          k.id,
			Times:       make([]float64, len(samples)),
			Absorbances: make([]float64, len(samples)),
		}
		for i, row := range samples {
			rep.Times[i] = row.Time
			rep.Absorbances[i] = row.Absorbance
		}

		if n := len(series); n > 0 && series[n-1].Concentration == k.s {
			series[n-1].Replicates = append(series[n-1].Replicates, rep)
		} else {
			series = append(series, ConcentrationSeries{
				Concentration: k.s,
				Replicates:    []Replicate{rep},
			})
		}
	}

	return series
}
