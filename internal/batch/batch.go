// Package batch solves many independent geodetic problems read from CSV.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/bessel"
	"github.com/tidwall/bessel/dms"
	"golang.org/x/sync/errgroup"
)

// Solver is implemented by *bessel.Ellipsoid and *metrics.Solver.
type Solver interface {
	Direct(lat1, lon1, azi1, s12 float64) (bessel.DirectResult, error)
	Inverse(lat1, lon1, lat2, lon2 float64) (bessel.InverseResult, error)
}

type Problem int

const (
	Direct Problem = iota + 1
	Inverse
)

func ParseProblem(s string) (Problem, error) {
	switch strings.ToLower(s) {
	case "direct":
		return Direct, nil
	case "inverse":
		return Inverse, nil
	}
	return 0, fmt.Errorf("batch: unknown problem %q", s)
}

func (p Problem) String() string {
	if p == Direct {
		return "direct"
	}
	return "inverse"
}

func (p Problem) inputKinds() [3]dms.Kind {
	if p == Direct {
		return [3]dms.Kind{dms.Latitude, dms.Longitude, dms.Azimuth}
	}
	return [3]dms.Kind{dms.Latitude, dms.Longitude, dms.Latitude}
}

// Header returns the columns written by Run.
func (p Problem) Header() []string {
	if p == Direct {
		return []string{"lat1", "lon1", "azi1", "s12", "lat2", "lon2", "azi2", "error"}
	}
	return []string{"lat1", "lon1", "lat2", "lon2", "azi1", "azi2", "s12", "iterations", "error"}
}

// Summary counts the rows of a run.
type Summary struct {
	Rows   int
	Failed int
}

type row struct {
	line   int
	fields []string
	out    []string
	err    error
}

// Run reads one problem per CSV record from r, solves the records on up to
// workers goroutines and writes them to w in input order. The first three
// columns accept decimal degrees or DMS text; the fourth is a longitude for
// Inverse and a distance in meters for Direct. A first record that does not
// parse is taken as a header and skipped. Failing rows are written with
// their error and counted; they do not stop the run.
func Run(ctx context.Context, s Solver, p Problem, format Format, r io.Reader, w io.Writer, workers int, logger zerolog.Logger) (Summary, error) {
	rows, err := readRows(r)
	if err != nil {
		return Summary{}, err
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		rw := &rows[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rw.out, rw.err = solve(s, p, rw.fields)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	enc := newEncoder(format, w)
	if err := enc.header(p.Header()); err != nil {
		return Summary{}, fmt.Errorf("batch: write header: %w", err)
	}
	sum := Summary{Rows: len(rows)}
	for _, rw := range rows {
		rec := append([]string{}, rw.fields...)
		if rw.err != nil {
			sum.Failed++
			logger.Debug().Int("line", rw.line).Err(rw.err).Msg("Row failed.")
			rec = append(rec, make([]string, len(p.Header())-len(rec)-1)...)
			rec = append(rec, rw.err.Error())
		} else {
			rec = append(rec, rw.out...)
			rec = append(rec, "")
		}
		if err := enc.record(rec); err != nil {
			return sum, fmt.Errorf("batch: write line %d: %w", rw.line, err)
		}
	}
	if err := enc.flush(); err != nil {
		return sum, fmt.Errorf("batch: flush: %w", err)
	}
	logger.Info().Str("problem", p.String()).Int("rows", sum.Rows).Int("failed", sum.Failed).Msg("Batch finished.")
	return sum, nil
}

func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []row
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch: read: %w", err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		rows = append(rows, row{line: line, fields: rec})
	}
	return rows, nil
}

func isHeader(rec []string) bool {
	_, err := dms.Parse(rec[0])
	return err != nil
}

func solve(s Solver, p Problem, fields []string) ([]string, error) {
	var in [4]float64
	kinds := p.inputKinds()
	for i, k := range kinds {
		v, err := dms.ParseDecimal(fields[i], k)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		in[i] = v
	}
	if p == Direct {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("column 4: %w", err)
		}
		in[3] = v
		r, err := s.Direct(in[0], in[1], in[2], in[3])
		if err != nil {
			return nil, err
		}
		return []string{formatDeg(r.Lat2), formatDeg(r.Lon2), formatDeg(r.Azi2)}, nil
	}

	v, err := dms.ParseDecimal(fields[3], dms.Longitude)
	if err != nil {
		return nil, fmt.Errorf("column 4: %w", err)
	}
	in[3] = v
	r, err := s.Inverse(in[0], in[1], in[2], in[3])
	if isCoincident(err) {
		return []string{"", "", "0.000000", "0"}, nil
	}
	if err != nil {
		return nil, err
	}
	return []string{
		formatDeg(r.Azi1), formatDeg(r.Azi2),
		strconv.FormatFloat(r.S12, 'f', 6, 64),
		strconv.Itoa(r.Iterations),
	}, nil
}

// Coincident points have a zero distance and no azimuths; the row is kept
// as a result.
func isCoincident(err error) bool {
	var de *bessel.DegenerateInputError
	return errors.As(err, &de) && de.Reason == bessel.Coincident
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', 10, 64)
}
