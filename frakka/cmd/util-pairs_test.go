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

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shenwei356/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stroehleina/frakka/frakka/cmd/kraken"
)

var testLog = logging.MustGetLogger("frakka-test")

func touch(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestResolvePairsFromLists(t *testing.T) {
	pairs, err := resolvePairs(&pairSource{
		Reports: []string{"a.kreport", "b.kreport"},
		Outputs: []string{"a.kraken", "b.kraken"},
		Species: []string{"Escherichia coli"},
	}, testLog)
	require.NoError(t, err)
	assert.Equal(t, []kraken.FilePair{
		{Report: "a.kreport", Classification: "a.kraken", TrueSpecies: "Escherichia coli"},
		{Report: "b.kreport", Classification: "b.kraken", TrueSpecies: "Escherichia coli"},
	}, pairs)

	pairs, err = resolvePairs(&pairSource{
		Reports: []string{"a.kreport", "b.kreport"},
		Outputs: []string{"a.kraken", "b.kraken"},
		Species: []string{"562", "28901"},
		Taxid:   true,
	}, testLog)
	require.NoError(t, err)
	assert.Equal(t, "562", pairs[0].TrueSpecies)
	assert.Equal(t, "28901", pairs[1].TrueSpecies)

	pairs, err = resolvePairs(&pairSource{
		Reports: []string{"a.kreport"},
		Outputs: []string{"a.kraken"},
	}, testLog)
	require.NoError(t, err)
	assert.Equal(t, NoSpecies, pairs[0].TrueSpecies)
}

func TestResolvePairsErrors(t *testing.T) {
	for name, src := range map[string]*pairSource{
		"no input":         {},
		"report only":      {Reports: []string{"a.kreport"}},
		"length mismatch":  {Reports: []string{"a.kreport", "b.kreport"}, Outputs: []string{"a.kraken"}},
		"species mismatch": {Reports: []string{"a", "b", "c"}, Outputs: []string{"a", "b", "c"}, Species: []string{"x", "y"}},
		"two sources":      {Reports: []string{"a"}, Outputs: []string{"a"}, FileOfFiles: "fof.tsv"},
		"taxid names":      {Reports: []string{"a"}, Outputs: []string{"a"}, Species: []string{"Escherichia coli"}, Taxid: true},
	} {
		_, err := resolvePairs(src, testLog)
		assert.Error(t, err, name)
	}
}

func TestResolvePairsFromFileOfFiles(t *testing.T) {
	dir := t.TempDir()

	fof := touch(t, dir, "fof.tsv", "a.kreport\ta.kraken\t562\nb.kreport\tb.kraken\t28901\n")
	pairs, err := resolvePairs(&pairSource{FileOfFiles: fof, Taxid: true}, testLog)
	require.NoError(t, err)
	assert.Equal(t, []kraken.FilePair{
		{Report: "a.kreport", Classification: "a.kraken", TrueSpecies: "562"},
		{Report: "b.kreport", Classification: "b.kraken", TrueSpecies: "28901"},
	}, pairs)

	// species in both the file and the flag
	_, err = resolvePairs(&pairSource{FileOfFiles: fof, Species: []string{"562"}}, testLog)
	assert.Error(t, err)

	fof2 := touch(t, dir, "fof2.tsv", "a.kreport\ta.kraken\nb.kreport\tb.kraken\n")
	pairs, err = resolvePairs(&pairSource{FileOfFiles: fof2, Species: []string{"Escherichia coli", "Salmonella enterica"}}, testLog)
	require.NoError(t, err)
	assert.Equal(t, "Salmonella enterica", pairs[1].TrueSpecies)

	fof1 := touch(t, dir, "fof1.tsv", "a.kreport\n")
	_, err = resolvePairs(&pairSource{FileOfFiles: fof1}, testLog)
	assert.Error(t, err)

	_, err = resolvePairs(&pairSource{FileOfFiles: filepath.Join(dir, "missing.tsv")}, testLog)
	assert.Error(t, err)
}

func TestResolvePairsFromDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "s2.kreport", "")
	touch(t, dir, "s2.kraken", "")
	touch(t, dir, "s1.kreport", "")
	touch(t, dir, "s1.kraken", "")
	touch(t, dir, "notes.txt", "")

	src := &pairSource{InDir: dir, ReportSuffix: ".kreport", OutputSuffix: ".kraken"}
	pairs, err := resolvePairs(src, testLog)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, filepath.Join(dir, "s1.kreport"), pairs[0].Report)
	assert.Equal(t, filepath.Join(dir, "s1.kraken"), pairs[0].Classification)
	assert.Equal(t, filepath.Join(dir, "s2.kreport"), pairs[1].Report)
	assert.Equal(t, NoSpecies, pairs[1].TrueSpecies)

	// a report without output
	touch(t, dir, "s3.kreport", "")
	_, err = resolvePairs(src, testLog)
	assert.Error(t, err)

	_, err = resolvePairs(&pairSource{InDir: t.TempDir(), ReportSuffix: ".kreport", OutputSuffix: ".kraken"}, testLog)
	assert.Error(t, err)
}

func TestIsTaxId(t *testing.T) {
	assert.True(t, isTaxId("562"))
	assert.True(t, isTaxId(NoSpecies))
	assert.False(t, isTaxId(""))
	assert.False(t, isTaxId("E. coli"))
	assert.False(t, isTaxId("562a"))
}

func TestUnescapeDelimiter(t *testing.T) {
	for s, want := range map[string]string{
		`\t`: "\t",
		",":  ",",
		`;`:  ";",
		`\n`: "\n",
	} {
		d, err := unescapeDelimiter(s)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}
	_, err := unescapeDelimiter(`\q`)
	assert.Error(t, err)
}
