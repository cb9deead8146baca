package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/bessel"
	"github.com/tidwall/gjson"
)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	recs, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestParseProblem(t *testing.T) {
	p, err := ParseProblem("Direct")
	require.NoError(t, err)
	assert.Equal(t, Direct, p)
	p, err = ParseProblem("inverse")
	require.NoError(t, err)
	assert.Equal(t, Inverse, p)
	assert.Equal(t, "inverse", p.String())
	_, err = ParseProblem("area")
	assert.Error(t, err)
}

func TestRunInverse(t *testing.T) {
	in := strings.Join([]string{
		"lat1,lon1,lat2,lon2",
		"40,0,40.9,1",
		"40°0'0'',0,40°54'0'',1",
		"10,20,10,20",
		"95,0,0,0",
		"0,0,0.5,179.7",
	}, "\n")
	var out bytes.Buffer
	sum, err := Run(context.Background(), bessel.Krasovsky, Inverse, CSV,
		strings.NewReader(in), &out, 3, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Rows: 5, Failed: 2}, sum)

	recs := readCSV(t, out.Bytes())
	require.Len(t, recs, 6)
	assert.Equal(t, Inverse.Header(), recs[0])

	s12, err := strconv.ParseFloat(recs[1][6], 64)
	require.NoError(t, err)
	assert.InDelta(t, 131088.0551169307, s12, 1e-3)
	assert.Equal(t, "4", recs[1][7])
	assert.Equal(t, "", recs[1][8])
	// DMS input gives the same solution
	for i := 4; i < 7; i++ {
		a, _ := strconv.ParseFloat(recs[1][i], 64)
		b, _ := strconv.ParseFloat(recs[2][i], 64)
		assert.InDelta(t, a, b, 1e-6)
	}

	assert.Equal(t, []string{"", "", "0.000000", "0", ""}, recs[3][4:])
	assert.Contains(t, recs[4][8], "column 1")
	assert.Contains(t, recs[5][8], "converge")
}

func TestRunDirect(t *testing.T) {
	in := "0,0,90,111319.49\n10,20,30,0\n10,20,30,-1\n"
	var out bytes.Buffer
	sum, err := Run(context.Background(), bessel.Krasovsky, Direct, CSV,
		strings.NewReader(in), &out, 0, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Rows: 3, Failed: 1}, sum)

	recs := readCSV(t, out.Bytes())
	require.Len(t, recs, 4)
	lat2, _ := strconv.ParseFloat(recs[1][4], 64)
	lon2, _ := strconv.ParseFloat(recs[1][5], 64)
	assert.InDelta(t, 0, lat2, 0.01)
	assert.InDelta(t, 1, lon2, 0.01)
	assert.Equal(t, []string{"10.0000000000", "20.0000000000", "210.0000000000", ""}, recs[2][4:])
	assert.Contains(t, recs[3][7], "s12")
}

func TestRunOrder(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString(strconv.Itoa(i%80) + ",0,0," + strconv.Itoa(1000*(i+1)) + "\n")
	}
	var out bytes.Buffer
	sum, err := Run(context.Background(), bessel.Krasovsky, Direct, CSV,
		strings.NewReader(b.String()), &out, 8, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 200, sum.Rows)
	assert.Zero(t, sum.Failed)

	recs := readCSV(t, out.Bytes())
	require.Len(t, recs, 201)
	for i, rec := range recs[1:] {
		assert.Equal(t, strconv.Itoa(1000*(i+1)), rec[3])
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, bessel.Krasovsky, Direct, CSV,
		strings.NewReader("0,0,0,1\n"), &bytes.Buffer{}, 1, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBadCSV(t *testing.T) {
	_, err := Run(context.Background(), bessel.Krasovsky, Direct, CSV,
		strings.NewReader("0,0,0\n"), &bytes.Buffer{}, 1, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunJSONLines(t *testing.T) {
	in := "40,0,40.9,1\n95,0,0,0\n"
	var out bytes.Buffer
	sum, err := Run(context.Background(), bessel.Krasovsky, Inverse, JSONLines,
		strings.NewReader(in), &out, 2, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Rows: 2, Failed: 1}, sum)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.True(t, gjson.Valid(l), l)
	}
	first := gjson.Parse(lines[0])
	assert.Equal(t, "40.9", first.Get("lat2").Str)
	assert.InDelta(t, 131088.0551169307, first.Get("s12").Float(), 1e-3)
	assert.Equal(t, gjson.Number, first.Get("iterations").Type)
	assert.False(t, first.Get("error").Exists())

	second := gjson.Parse(lines[1])
	assert.Contains(t, second.Get("error").Str, "column 1")
	assert.False(t, second.Get("s12").Exists())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)
	f, err = ParseFormat("JSONL")
	require.NoError(t, err)
	assert.Equal(t, JSONLines, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
