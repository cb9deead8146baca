package batch

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

type Format int

const (
	CSV Format = iota
	JSONLines
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return CSV, nil
	case "jsonl", "ndjson":
		return JSONLines, nil
	}
	return 0, fmt.Errorf("batch: unknown format %q", s)
}

type encoder interface {
	header(cols []string) error
	record(rec []string) error
	flush() error
}

func newEncoder(f Format, w io.Writer) encoder {
	if f == JSONLines {
		return &jsonEncoder{w: bufio.NewWriter(w)}
	}
	return &csvEncoder{w: csv.NewWriter(w)}
}

type csvEncoder struct {
	w *csv.Writer
}

func (e *csvEncoder) header(cols []string) error { return e.w.Write(cols) }
func (e *csvEncoder) record(rec []string) error { return e.w.Write(rec) }

func (e *csvEncoder) flush() error {
	e.w.Flush()
	return e.w.Error()
}

// jsonEncoder writes one object per record. Columns holding a number are
// written as numbers, the input columns as given and empty columns not at
// all.
type jsonEncoder struct {
	w    *bufio.Writer
	cols []string
}

func (e *jsonEncoder) header(cols []string) error {
	e.cols = cols
	return nil
}

func (e *jsonEncoder) record(rec []string) error {
	obj := []byte("{}")
	var err error
	for i, v := range rec {
		name := e.cols[i]
		switch {
		case v == "":
			continue
		case i < 4 || name == "error":
			obj, err = sjson.SetBytes(obj, name, v)
		default:
			if _, err = strconv.ParseFloat(v, 64); err == nil {
				obj, err = sjson.SetRawBytes(obj, name, []byte(v))
			}
		}
		if err != nil {
			return err
		}
	}
	obj = append(obj, '\n')
	_, err = e.w.Write(obj)
	return err
}

func (e *jsonEncoder) flush() error { return e.w.Flush() }
