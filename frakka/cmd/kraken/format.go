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

package kraken

import (
	"io"
	"strconv"
	"strings"
)

// Formatter formats records to delimited lines.
type Formatter struct {
	Delimiter    string
	Counts       bool
	TaxidDisplay bool
}

// HeaderFields returns column names.
func (f *Formatter) HeaderFields() []string {
	trueSpec, calledSpec := "true_spec", "K_spec"
	if f.TaxidDisplay {
		trueSpec += "_taxid"
		calledSpec += "_taxid"
	}
	if f.Counts {
		return []string{"file", trueSpec, calledSpec, "read_count", "median_score"}
	}
	return []string{"file", trueSpec, calledSpec, "read_id", "score"}
}

// Format returns a line without the line break. A nil record returns the header.
func (f *Formatter) Format(r *Record) string {
	if r == nil {
		return strings.Join(f.HeaderFields(), f.Delimiter)
	}

	switch r.Kind {
	case CountRecord:
		return strings.Join([]string{r.File, r.TrueSpecies, r.Called,
			strconv.Itoa(r.ReadCount), formatScore(r.MedianScore)}, f.Delimiter)
	default:
		return strings.Join([]string{r.File, r.TrueSpecies, r.Called,
			r.ReadID, formatScore(r.Score)}, f.Delimiter)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Writer writes records of one or more file pairs, sharing one header row.
type Writer struct {
	w        io.Writer
	f        *Formatter
	NoHeader bool

	headerWritten bool
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer, f *Formatter) *Writer {
	return &Writer{w: w, f: f}
}

// WriteResult writes all records of a file pair. The header row is written
// before the records of the first file pair.
func (w *Writer) WriteResult(result *Result) error {
	if !w.headerWritten {
		w.headerWritten = true
		if !w.NoHeader {
			if err := w.writeLine(w.f.Format(nil)); err != nil {
				return err
			}
		}
	}

	for _, r := range result.Records {
		if err := w.writeLine(w.f.Format(r)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeLine(line string) error {
	if _, err := io.WriteString(w.w, line); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, "\n")
	return err
}
