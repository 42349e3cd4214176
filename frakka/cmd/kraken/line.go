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
	"github.com/pkg/errors"
)

// Flag is the classification status of a read.
type Flag uint8

const (
	// Classified reads are marked with "C".
	Classified Flag = iota
	// Unclassified reads are marked with "U".
	Unclassified
)

func (f Flag) String() string {
	if f == Unclassified {
		return "U"
	}
	return "C"
}

// number of columns needed: flag, read id, taxid, length(s), k-mers
const minClassificationColumns = 5

// ClassificationLine is one line of Kraken standard output.
type ClassificationLine struct {
	Flag   Flag
	ReadID string
	TaxId  string
	Kmers  string // e.g., "562:13 561:4 A:31 0:1 562:3"
}

// ParseClassificationLine parses a row of Kraken standard output.
// Unclassified reads are dropped with ok == false and no error.
func ParseClassificationLine(row []string) (*ClassificationLine, bool, error) {
	if len(row) < minClassificationColumns {
		return nil, false, errors.Wrapf(ErrMalformedLine, "%d columns found, at least %d needed", len(row), minClassificationColumns)
	}

	switch row[0] {
	case "U":
		return nil, false, nil
	case "C":
	default:
		return nil, false, errors.Wrapf(ErrMalformedLine, "unknown classification flag %q of read %s", row[0], row[1])
	}

	return &ClassificationLine{
		Flag:   Classified,
		ReadID: row[1],
		TaxId:  row[2],
		Kmers:  row[4],
	}, true, nil
}

// ScoredLine is a classified line with its confidence score.
type ScoredLine struct {
	*ClassificationLine
	Score float64
}

// LoadStats summarizes lines of a classification file.
type LoadStats struct {
	Lines          int
	Unclassified   int
	Unscored       int // no informative k-mers
	BelowThreshold int
	Kept           int
}

// LoadClassifications reads a Kraken output file and returns classified lines
// with a score not smaller than the threshold.
func LoadClassifications(file string, threshold float64, log Logger) ([]*ScoredLine, *LoadStats, error) {
	log.Infof("reading Kraken output file: %s", file)
	t, err := ReadTable(file, log)
	if err != nil {
		return nil, nil, err
	}

	stats := &LoadStats{Lines: len(t.Rows)}
	lines := make([]*ScoredLine, 0, len(t.Rows))

	var line *ClassificationLine
	var ok bool
	var score float64
	for i, row := range t.Rows {
		line, ok, err = ParseClassificationLine(row)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s: line %d", file, i+1)
		}
		if !ok {
			stats.Unclassified++
			continue
		}

		score, ok, err = line.Confidence()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s: line %d", file, i+1)
		}
		if !ok {
			stats.Unscored++
			continue
		}
		if score < threshold {
			stats.BelowThreshold++
			continue
		}

		lines = append(lines, &ScoredLine{ClassificationLine: line, Score: score})
	}
	stats.Kept = len(lines)

	return lines, stats, nil
}
