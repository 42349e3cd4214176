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
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/stats"
	"github.com/twotwotwo/sorts"
	"github.com/zeebo/wyhash"
)

// FilePair is a Kraken report and the classification output of the same run,
// with the true/known species of the sample.
type FilePair struct {
	Report         string
	Classification string
	TrueSpecies    string
}

func (p FilePair) String() string {
	return fmt.Sprintf("%s + %s (%s)", p.Report, p.Classification, p.TrueSpecies)
}

// available orders of count records
const (
	SortByNone  = ""
	SortByCount = "count"
	SortByName  = "name"
)

// Options controls the aggregation.
type Options struct {
	Threshold    float64 // minimal confidence score
	Counts       bool    // per-species counts instead of per-read records
	TaxidDisplay bool    // output TaxIds instead of species names
	SortBy       string  // order of count records
}

// Stats summarizes the processing of a file pair.
type Stats struct {
	LoadStats
	AboveSpecies int // reads classified above the species rank
}

// Result holds all records of a file pair, in output order.
type Result struct {
	Pair      FilePair
	Records   []*Record
	Alternate bool // GTDB-derived report
	Stats     Stats
}

type speciesAccumulator struct {
	taxid  string
	reads  int
	scores *stats.Quantiler
}

// ProcessPair loads a report and its classification output and aggregates them.
func ProcessPair(pair FilePair, opt *Options, log Logger) (*Result, error) {
	taxmap, err := LoadReport(pair.Report, log)
	if err != nil {
		return nil, err
	}
	lines, loadStats, err := LoadClassifications(pair.Classification, opt.Threshold, log)
	if err != nil {
		return nil, err
	}

	result, err := Aggregate(pair, taxmap, lines, opt)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadStats = *loadStats

	log.Infof("  %d classified reads with score >= %v, %d above species rank, %d records",
		loadStats.Kept, opt.Threshold, result.Stats.AboveSpecies, len(result.Records))
	return result, nil
}

// Aggregate generates per-read or per-species records from scored lines.
//
// A TaxId missing from the TaxonomyMap is assigned above the species rank and
// its reads are skipped. In counts mode, a TaxId not found at any rank of the
// report means the two files are not from the same run, and ErrReportMismatch
// is returned.
func Aggregate(pair FilePair, taxmap *TaxonomyMap, lines []*ScoredLine, opt *Options) (*Result, error) {
	result := &Result{Pair: pair, Alternate: taxmap.Alternate()}

	if !opt.Counts {
		result.Records = make([]*Record, 0, len(lines))
		var name string
		var ok bool
		for _, line := range lines {
			if line.Score < opt.Threshold {
				continue
			}
			name, ok = taxmap.Name(line.TaxId)
			if !ok {
				result.Stats.AboveSpecies++
				continue
			}
			if opt.TaxidDisplay {
				name = line.TaxId
			}
			result.Records = append(result.Records, &Record{
				Kind:        ReadRecord,
				File:        pair.Report,
				TrueSpecies: pair.TrueSpecies,
				Called:      name,
				ReadID:      line.ReadID,
				Score:       line.Score,
			})
		}
		return result, nil
	}

	// counts mode

	accs := make(map[uint64]*speciesAccumulator, 1024)
	order := make([]uint64, 0, 1024)
	var h uint64
	var acc *speciesAccumulator
	var ok bool
	for _, line := range lines {
		if line.Score < opt.Threshold {
			continue
		}
		h = wyhash.HashString(line.TaxId, 1)
		if acc, ok = accs[h]; !ok {
			acc = &speciesAccumulator{taxid: line.TaxId, scores: stats.NewQuantiler()}
			accs[h] = acc
			order = append(order, h)
		}
		acc.reads++
		acc.scores.Add(line.Score)
	}

	result.Records = make([]*Record, 0, len(order))
	var name, called string
	for _, h = range order {
		acc = accs[h]

		name, ok = taxmap.Name(acc.taxid)
		if !ok {
			if taxmap.Len() > 0 && !taxmap.Reported(acc.taxid) {
				return nil, errors.Wrapf(ErrReportMismatch,
					"TaxId %s of %d reads in %s not found in %s",
					acc.taxid, acc.reads, pair.Classification, pair.Report)
			}
			result.Stats.AboveSpecies += acc.reads
			continue
		}

		called = name
		if opt.TaxidDisplay {
			called = acc.taxid
		}
		result.Records = append(result.Records, &Record{
			Kind:        CountRecord,
			File:        pair.Report,
			TrueSpecies: pair.TrueSpecies,
			Called:      called,
			TaxId:       acc.taxid,
			SpeciesName: name,
			ReadCount:   acc.reads,
			MedianScore: roundFloat(acc.scores.Median(), 3),
		})
	}

	switch opt.SortBy {
	case SortByNone:
	case SortByCount:
		sorts.Quicksort(CountRecords(result.Records))
	case SortByName:
		sorts.Quicksort(CountRecordsByName{CountRecords(result.Records)})
	default:
		return nil, fmt.Errorf("invalid order of records: %s", opt.SortBy)
	}

	return result, nil
}
