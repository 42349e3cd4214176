// Copyright © 2023-2024 The frakka Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package kraken parses Kraken2 reports and per-read classification output,
// computes read-level confidence scores and aggregates them per species.
package kraken

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
	"github.com/shenwei356/util/pathutil"
)

// ChunkSize is the number of lines sent to the line parser at a time.
var ChunkSize = 1000

// Logger receives diagnostic messages. *logging.Logger of go-logging satisfies it.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

// Table is a tab-delimited file loaded in memory.
type Table struct {
	File       string
	Rows       [][]string
	NumColumns int
}

func splitFields(line string) (interface{}, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" { // ignoring blank line
		return nil, false, nil
	}
	items := strings.Split(line, "\t")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items, true, nil
}

// ReadTable reads a whole tab-delimited file, skipping blank lines. All lines
// must have the same number of columns, otherwise a *ColumnCountError is
// returned after the histogram of column counts is logged.
func ReadTable(file string, log Logger) (*Table, error) {
	existed, err := pathutil.Exists(file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	if !existed {
		return nil, errors.Wrap(ErrFileNotFound, file)
	}

	t := &Table{File: file, Rows: make([][]string, 0, 1024)}

	info, err := os.Stat(file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	if info.Size() == 0 {
		log.Warningf("empty file: %s", file)
		return t, nil
	}

	// one worker, so chunks come back in file order
	reader, err := breader.NewBufferedReader(file, 1, ChunkSize, splitFields)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	histogram := make(map[int]int, 1)

	var row []string
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			if err == nil {
				err = chunk.Err
			}
			continue
		}
		for _, data := range chunk.Data {
			row = data.([]string)
			histogram[len(row)]++
			t.Rows = append(t.Rows, row)
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	if len(histogram) > 1 {
		e := &ColumnCountError{File: file, Histogram: histogram}
		log.Warningf("file %s contains different numbers of columns per line:", file)
		for _, n := range e.Columns() {
			log.Warningf("  %d lines with %d columns", histogram[n], n)
		}
		return nil, e
	}

	for n := range histogram {
		t.NumColumns = n
	}
	log.Infof("finished reading file %s: all entries (n = %d) have the same number of columns (n = %d)",
		file, len(t.Rows), t.NumColumns)

	return t, nil
}
