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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classification lines with known scores
var outputLines = []string{
	kline("C", "r1", "562", "562:1 0:1"),     // 0.5
	kline("U", "r2", "0", "0:100"),           // unclassified
	kline("C", "r3", "562", "562:7 0:3"),     // 0.7
	kline("C", "r4", "561", "561:9 562:1"),   // genus, 0.9
	kline("C", "r5", "28901", "28901:1 0:4"), // 0.2
	kline("C", "r6", "562", "562:8 0:2"),     // 0.8
	kline("C", "r7", "28901", "28901:3 0:2"), // 0.6
	kline("C", "r8", "562", "A:50"),          // no informative k-mers
	kline("C", "r9", "562", "562:9 0:1"),     // 0.9
	kline("C", "r10", "28901", "28901:5"),    // 1
}

func newPair(t *testing.T, report []string, output []string) FilePair {
	return FilePair{
		Report:         writeLines(t, "sample.kreport", report...),
		Classification: writeLines(t, "sample.kraken", output...),
		TrueSpecies:    "Escherichia coli",
	}
}

func TestProcessPairReads(t *testing.T) {
	pair := newPair(t, reportLines, outputLines)

	result, err := ProcessPair(pair, &Options{}, discardLogger())
	require.NoError(t, err)

	var reads []string
	var called []string
	for _, r := range result.Records {
		assert.Equal(t, ReadRecord, r.Kind)
		assert.Equal(t, pair.Report, r.File)
		assert.Equal(t, "Escherichia coli", r.TrueSpecies)
		reads = append(reads, r.ReadID)
		called = append(called, r.Called)
	}
	assert.Equal(t, []string{"r1", "r3", "r5", "r6", "r7", "r9", "r10"}, reads)
	assert.Equal(t, "Escherichia coli", called[0])
	assert.Equal(t, "Salmonella enterica", called[2])

	assert.Equal(t, 1, result.Stats.AboveSpecies)
	assert.Equal(t, 1, result.Stats.Unclassified)
	assert.Equal(t, 1, result.Stats.Unscored)
}

func TestProcessPairReadsThresholdAndTaxid(t *testing.T) {
	pair := newPair(t, reportLines, outputLines)

	result, err := ProcessPair(pair, &Options{Threshold: 0.8, TaxidDisplay: true}, discardLogger())
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	for i, want := range []struct {
		read   string
		called string
		score  float64
	}{
		{"r6", "562", 0.8},
		{"r9", "562", 0.9},
		{"r10", "28901", 1},
	} {
		assert.Equal(t, want.read, result.Records[i].ReadID)
		assert.Equal(t, want.called, result.Records[i].Called)
		assert.Equal(t, want.score, result.Records[i].Score)
	}
}

func TestProcessPairCounts(t *testing.T) {
	pair := newPair(t, reportLines, outputLines)

	result, err := ProcessPair(pair, &Options{Counts: true}, discardLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	ecoli := result.Records[0]
	assert.Equal(t, CountRecord, ecoli.Kind)
	assert.Equal(t, "562", ecoli.TaxId)
	assert.Equal(t, "Escherichia coli", ecoli.Called)
	assert.Equal(t, 4, ecoli.ReadCount)     // 0.5 0.7 0.8 0.9
	assert.Equal(t, 0.75, ecoli.MedianScore) // even number of scores

	salmonella := result.Records[1]
	assert.Equal(t, "28901", salmonella.TaxId)
	assert.Equal(t, 3, salmonella.ReadCount) // 0.2 0.6 1
	assert.Equal(t, 0.6, salmonella.MedianScore)

	// the genus-level read is not an error
	assert.Equal(t, 1, result.Stats.AboveSpecies)
}

func TestProcessPairCountsTaxidDisplay(t *testing.T) {
	pair := newPair(t, reportLines, outputLines)

	result, err := ProcessPair(pair, &Options{Counts: true, TaxidDisplay: true, Threshold: 0.7}, discardLogger())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "562", result.Records[0].Called)
	assert.Equal(t, "Escherichia coli", result.Records[0].SpeciesName)
	assert.Equal(t, 3, result.Records[0].ReadCount)
	assert.Equal(t, 0.8, result.Records[0].MedianScore)

	assert.Equal(t, "28901", result.Records[1].Called)
	assert.Equal(t, 1, result.Records[1].ReadCount)
	assert.Equal(t, 1.0, result.Records[1].MedianScore)
}

func TestProcessPairCountsReportMismatch(t *testing.T) {
	output := append([]string{}, outputLines...)
	output = append(output, kline("C", "r11", "99999", "99999:5"))
	pair := newPair(t, reportLines, output)

	_, err := ProcessPair(pair, &Options{Counts: true}, discardLogger())
	assert.True(t, errors.Is(err, ErrReportMismatch))
	assert.Contains(t, err.Error(), "99999")

	// only skipped when reporting reads
	result, err := ProcessPair(pair, &Options{}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.AboveSpecies)
}

func TestProcessPairNoScoreNeverReported(t *testing.T) {
	pair := newPair(t, reportLines, []string{
		kline("C", "r1", "562", "A:10"),
		kline("C", "r2", "562", "A:10 |:| A:12"),
		kline("U", "r3", "562", "562:10"),
	})

	for _, counts := range []bool{false, true} {
		result, err := ProcessPair(pair, &Options{Counts: counts}, discardLogger())
		require.NoError(t, err)
		assert.Empty(t, result.Records)
	}
}

func TestProcessPairGTDB(t *testing.T) {
	pair := newPair(t, gtdbReportLines, []string{
		kline("C", "r1", "11", "11:4"),
		kline("C", "r2", "21", "21:1 0:1"),
		kline("C", "r3", "10", "10:1"), // S row, not used
	})

	result, err := ProcessPair(pair, &Options{Counts: true}, discardLogger())
	require.NoError(t, err)
	assert.True(t, result.Alternate)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "s__Escherichia coli", result.Records[0].Called)
	assert.Equal(t, "s__Salmonella enterica", result.Records[1].Called)
	assert.Equal(t, 1, result.Stats.AboveSpecies)
}

func TestProcessPairMissingFile(t *testing.T) {
	pair := newPair(t, reportLines, outputLines)
	pair.Classification += ".missing"

	_, err := ProcessPair(pair, &Options{}, discardLogger())
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestAggregateSortBy(t *testing.T) {
	taxmap, err := NewTaxonomyMap(&Table{
		File:       "r",
		NumColumns: 6,
		Rows: [][]string{
			{"1", "1", "1", "S", "1", "Zeta"},
			{"1", "1", "1", "S", "2", "Alpha"},
			{"1", "1", "1", "S", "3", "Mu"},
		},
	}, discardLogger())
	require.NoError(t, err)

	var lines []*ScoredLine
	for _, taxid := range []string{"1", "2", "2", "3", "3", "3"} {
		lines = append(lines, &ScoredLine{&ClassificationLine{TaxId: taxid}, 1})
	}

	order := func(sortBy string) []string {
		result, err := Aggregate(FilePair{}, taxmap, lines, &Options{Counts: true, SortBy: sortBy})
		require.NoError(t, err)
		var taxids []string
		for _, r := range result.Records {
			taxids = append(taxids, r.TaxId)
		}
		return taxids
	}

	assert.Equal(t, []string{"1", "2", "3"}, order(SortByNone))
	assert.Equal(t, []string{"3", "2", "1"}, order(SortByCount))
	assert.Equal(t, []string{"2", "3", "1"}, order(SortByName))

	_, err = Aggregate(FilePair{}, taxmap, lines, &Options{Counts: true, SortBy: "size"})
	assert.Error(t, err)
}

func TestAggregateMedianRoundsHalfToEven(t *testing.T) {
	taxmap, err := NewTaxonomyMap(&Table{
		File:       "r",
		NumColumns: 6,
		Rows:       [][]string{{"1", "1", "1", "S", "562", "Escherichia coli"}},
	}, discardLogger())
	require.NoError(t, err)

	lines := []*ScoredLine{
		{&ClassificationLine{TaxId: "562"}, 0.5},
		{&ClassificationLine{TaxId: "562"}, 0.625},
	}
	result, err := Aggregate(FilePair{}, taxmap, lines, &Options{Counts: true})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 0.562, result.Records[0].MedianScore) // 0.5625
}
