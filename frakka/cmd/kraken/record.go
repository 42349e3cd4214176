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

// RecordKind tells which fields of a Record are set.
type RecordKind uint8

const (
	// ReadRecord is a per-read record with ReadID and Score.
	ReadRecord RecordKind = iota
	// CountRecord is a per-species record with TaxId, SpeciesName, ReadCount and MedianScore.
	CountRecord
)

func (k RecordKind) String() string {
	switch k {
	case ReadRecord:
		return "read"
	case CountRecord:
		return "count"
	}
	return "unknown"
}

// Record is an output record of a file pair.
type Record struct {
	Kind RecordKind

	File        string // the report file
	TrueSpecies string // known species name or TaxId, given by the user
	Called      string // species name, or TaxId when showing TaxIds

	// ReadRecord
	ReadID string
	Score  float64

	// CountRecord
	TaxId       string
	SpeciesName string
	ReadCount   int
	MedianScore float64

	// number of species merged into this record by Collapse, MedianScore is not available if > 0.
	Merged int
}

// CountRecords sorts count records by read count in descending order.
type CountRecords []*Record

func (r CountRecords) Len() int { return len(r) }
func (r CountRecords) Less(i, j int) bool {
	if r[i].ReadCount == r[j].ReadCount {
		return r[i].TaxId < r[j].TaxId
	}
	return r[i].ReadCount > r[j].ReadCount
}
func (r CountRecords) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// CountRecordsByName sorts count records by species name.
type CountRecordsByName struct{ CountRecords }

func (r CountRecordsByName) Less(i, j int) bool {
	a, b := r.CountRecords[i], r.CountRecords[j]
	if a.SpeciesName == b.SpeciesName {
		return a.TaxId < b.TaxId
	}
	return a.SpeciesName < b.SpeciesName
}
