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

// OtherSpecies is the name of the record merging low-abundance species.
const OtherSpecies = "Other"

// Collapse filters count records for reporting: records with fewer than
// minReads reads are dropped, then records with fewer than otherBelow reads
// are merged into one "Other" record appended to the end. The median of the
// merged record can not be computed from medians of its parts, so Merged is
// set to the number of merged records instead.
// Records are not modified.
func Collapse(records []*Record, minReads int, otherBelow int) []*Record {
	kept := make([]*Record, 0, len(records))
	var other *Record
	for _, r := range records {
		if r.Kind != CountRecord || r.ReadCount < minReads {
			continue
		}
		if r.ReadCount < otherBelow {
			if other == nil {
				other = &Record{
					Kind:        CountRecord,
					File:        r.File,
					TrueSpecies: r.TrueSpecies,
					Called:      OtherSpecies,
					SpeciesName: OtherSpecies,
				}
			}
			other.ReadCount += r.ReadCount
			other.Merged++
			continue
		}
		kept = append(kept, r)
	}
	if other != nil {
		kept = append(kept, other)
	}
	return kept
}
