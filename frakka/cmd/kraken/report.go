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

// Rank codes of interest in a Kraken report.
const (
	RankSpecies = "S"
	RankS1      = "S1"
)

// TaxonomyMap maps TaxIds of species-level report entries to species names.
// It is read-only after construction.
type TaxonomyMap struct {
	names  map[string]string
	taxids []string // in the order of the report

	reported map[string]struct{} // TaxIds of all ranks

	alternate bool
}

// orderedMap is a string map remembering the first-insertion order of keys.
type orderedMap struct {
	m    map[string]string
	keys []string
}

func newOrderedMap() *orderedMap {
	return &orderedMap{m: make(map[string]string, 1024), keys: make([]string, 0, 1024)}
}

func (o *orderedMap) set(k, v string) {
	if _, ok := o.m[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.m[k] = v
}

// LoadReport reads a Kraken report file and builds the TaxonomyMap.
func LoadReport(file string, log Logger) (*TaxonomyMap, error) {
	log.Infof("reading Kraken report file: %s", file)
	t, err := ReadTable(file, log)
	if err != nil {
		return nil, err
	}
	return NewTaxonomyMap(t, log)
}

// NewTaxonomyMap builds a TaxonomyMap from a report table.
//
// Column offsets depend on the table width W, since some report variants have
// more leading columns: rank code at W-3, TaxId at W-2 and name at W-1.
// The number of reads assigned directly to the taxon is at column 2.
//
// Reports built from GTDB have zero reads on all S rows, and the reads are
// assigned to S1 rows, one per S row. If so, the i-th S1 TaxId is paired with
// the i-th S name. This only holds when every S1 row follows its S row.
func NewTaxonomyMap(t *Table, log Logger) (*TaxonomyMap, error) {
	if len(t.Rows) == 0 {
		return &TaxonomyMap{
			names:    map[string]string{},
			reported: map[string]struct{}{},
		}, nil
	}

	w := t.NumColumns
	if w < 4 {
		return nil, errors.Wrapf(ErrMalformedReport, "%s: at least 4 columns needed, %d given", t.File, w)
	}
	rankCol, taxidCol, nameCol := w-3, w-2, w-1

	species := newOrderedMap()
	s1 := newOrderedMap()
	counts := make(map[string]struct{}, 2)
	reported := make(map[string]struct{}, len(t.Rows))

	for _, row := range t.Rows {
		reported[row[taxidCol]] = struct{}{}

		switch row[rankCol] {
		case RankSpecies:
			species.set(row[taxidCol], row[nameCol])
			counts[row[2]] = struct{}{}
		case RankS1:
			s1.set(row[taxidCol], row[nameCol])
		}
	}

	m := &TaxonomyMap{reported: reported}

	_, zero := counts["0"]
	if zero && len(counts) == 1 && len(s1.keys) == len(species.keys) {
		log.Warningf("it appears that the report is derived from the GTDB database, using S1 lines to match TaxIds to species names: %s", t.File)

		m.alternate = true
		m.names = make(map[string]string, len(s1.keys))
		m.taxids = make([]string, len(s1.keys))
		for i, taxid := range s1.keys {
			m.names[taxid] = species.m[species.keys[i]]
			m.taxids[i] = taxid
		}
		return m, nil
	}

	m.names = species.m
	m.taxids = species.keys
	return m, nil
}

// Name returns the species name of a TaxId.
// A missing TaxId is usually assigned above the species rank.
func (m *TaxonomyMap) Name(taxid string) (string, bool) {
	name, ok := m.names[taxid]
	return name, ok
}

// Reported tells whether the TaxId appears in the report at any rank.
func (m *TaxonomyMap) Reported(taxid string) bool {
	_, ok := m.reported[taxid]
	return ok
}

// Len returns the number of species.
func (m *TaxonomyMap) Len() int { return len(m.names) }

// Alternate tells whether S1 rows were used (GTDB-derived report).
func (m *TaxonomyMap) Alternate() bool { return m.alternate }
