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
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PairDelimiter separates k-mer runs of the two mates of a read pair,
// the full separator in Kraken output is " |:| ".
const PairDelimiter = "|:|"

// AmbiguousLabel marks k-mers containing ambiguous nucleotides,
// they are not counted.
const AmbiguousLabel = "A"

// Confidence computes the confidence score of a read, i.e., the proportion of
// non-ambiguous k-mers assigned to the called TaxId. For paired-end reads,
// the score is the mean of both mates. Mates without any non-ambiguous k-mers
// are not counted, and ok is false if no mate is left.
//
// https://github.com/DerrickWood/kraken2/wiki/Manual#confidence-scoring
func (l *ClassificationLine) Confidence() (score float64, ok bool, err error) {
	kmers := strings.TrimSpace(l.Kmers)
	if kmers == "" {
		return 0, false, errors.Wrapf(ErrInvalidKmerEncoding, "no k-mers for read %s", l.ReadID)
	}

	runs := strings.Split(kmers, PairDelimiter)
	if len(runs) > 2 {
		return 0, false, errors.Wrapf(ErrInvalidKmerEncoding, "%d k-mer runs found for read %s, 1 or 2 expected", len(runs), l.ReadID)
	}

	var sum float64
	var n int
	var all, tax uint64
	for _, run := range runs {
		all, tax, err = countKmers(run, l.TaxId)
		if err != nil {
			return 0, false, errors.Wrapf(err, "read %s", l.ReadID)
		}
		if all == 0 {
			continue
		}
		sum += float64(tax) / float64(all)
		n++
	}

	if n == 0 {
		return 0, false, nil
	}
	return roundFloat(sum/float64(n), 3), true, nil
}

// countKmers counts non-ambiguous k-mers of a run and those assigned to taxid.
func countKmers(run string, taxid string) (all uint64, tax uint64, err error) {
	var label string
	var i int
	var count uint64
	for _, token := range strings.Fields(run) {
		i = strings.LastIndexByte(token, ':')
		if i < 0 {
			return 0, 0, errors.Wrapf(ErrInvalidKmerEncoding, "invalid k-mer token: %s", token)
		}
		label = token[:i]

		count, err = strconv.ParseUint(token[i+1:], 10, 64)
		if err != nil {
			return 0, 0, errors.Wrapf(ErrInvalidKmerEncoding, "invalid k-mer count: %s", token)
		}

		if label == AmbiguousLabel {
			continue
		}
		all += count
		if label == taxid {
			tax += count
		}
	}
	return all, tax, nil
}

// roundFloat rounds half to even.
func roundFloat(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.RoundToEven(v*p) / p
}
