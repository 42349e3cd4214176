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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapse(t *testing.T) {
	records := []*Record{
		{Kind: CountRecord, File: "a", TrueSpecies: "N/A", SpeciesName: "A", ReadCount: 100, MedianScore: 0.9},
		{Kind: CountRecord, File: "a", TrueSpecies: "N/A", SpeciesName: "B", ReadCount: 1, MedianScore: 0.1},
		{Kind: CountRecord, File: "a", TrueSpecies: "N/A", SpeciesName: "C", ReadCount: 5, MedianScore: 0.2},
		{Kind: CountRecord, File: "a", TrueSpecies: "N/A", SpeciesName: "D", ReadCount: 7, MedianScore: 0.3},
		{Kind: CountRecord, File: "a", TrueSpecies: "N/A", SpeciesName: "E", ReadCount: 50, MedianScore: 0.8},
	}

	kept := Collapse(records, 2, 10)
	require.Len(t, kept, 3)
	assert.Equal(t, "A", kept[0].SpeciesName)
	assert.Equal(t, "E", kept[1].SpeciesName)

	other := kept[2]
	assert.Equal(t, OtherSpecies, other.SpeciesName)
	assert.Equal(t, 12, other.ReadCount)
	assert.Equal(t, 2, other.Merged)
	assert.Equal(t, "a", other.File)

	// nothing to merge
	kept = Collapse(records, 0, 0)
	assert.Len(t, kept, 5)
	assert.Equal(t, 1, records[1].ReadCount)
}
