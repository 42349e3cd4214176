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
	"bytes"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrFileNotFound means an input file does not exist.
	ErrFileNotFound = errors.New("kraken: file not found")

	// ErrMalformedTable means lines of a tab-delimited file have different numbers of columns.
	ErrMalformedTable = errors.New("kraken: inconsistent number of columns")

	// ErrMalformedReport means a report file is too narrow to locate the rank, taxid and name columns.
	ErrMalformedReport = errors.New("kraken: invalid report format")

	// ErrMalformedLine means a classification line can not be parsed.
	ErrMalformedLine = errors.New("kraken: invalid classification line")

	// ErrInvalidKmerEncoding means the k-mer string of a classification line is not
	// one (single-end) or two (paired-end) runs of label:count tokens.
	ErrInvalidKmerEncoding = errors.New("kraken: invalid k-mer encoding")

	// ErrReportMismatch means a classified TaxId is absent from the report,
	// i.e., the report and the classification output are not from the same run.
	ErrReportMismatch = errors.New("kraken: report and classification output do not match")
)

// ColumnCountError records the histogram of column counts of a malformed table.
type ColumnCountError struct {
	File      string
	Histogram map[int]int // number of columns -> number of lines
}

// Columns returns the observed column counts, largest first.
func (e *ColumnCountError) Columns() []int {
	cols := make([]int, 0, len(e.Histogram))
	for n := range e.Histogram {
		cols = append(cols, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(cols)))
	return cols
}

func (e *ColumnCountError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %s:", ErrMalformedTable, e.File)
	for i, n := range e.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, " %d lines with %d columns", e.Histogram[n], n)
	}
	return buf.String()
}

// Is makes errors.Is(err, ErrMalformedTable) true.
func (e *ColumnCountError) Is(target error) bool {
	return target == ErrMalformedTable
}
