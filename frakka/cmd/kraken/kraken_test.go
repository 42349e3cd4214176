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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenwei356/go-logging"
	"github.com/stretchr/testify/require"
)

// newTestLogger returns a logger writing into buf.
func newTestLogger(buf *bytes.Buffer) *logging.Logger {
	log := logging.MustGetLogger("frakka-test")
	backend := logging.NewLogBackend(buf, "", 0)
	formatter := logging.MustStringFormatter(`[%{level:.4s}] %{message}`)
	log.SetBackend(logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter)))
	return log
}

func discardLogger() *logging.Logger {
	return newTestLogger(&bytes.Buffer{})
}

// writeLines writes lines into a file in a temporary directory.
func writeLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	require.NoError(t, os.WriteFile(file, []byte(data), 0644))
	return file
}

// a standard report: percentage, clade reads, taxon reads, rank, taxid, name
var reportLines = []string{
	" 5.00\t10\t10\tU\t0\tunclassified",
	"95.00\t190\t0\tR\t1\troot",
	"60.00\t120\t20\tG\t561\t      Escherichia",
	"50.00\t100\t100\tS\t562\t        Escherichia coli",
	"35.00\t70\t0\tG\t590\t      Salmonella",
	"35.00\t70\t70\tS\t28901\t        Salmonella enterica",
}

func kline(flag, read, taxid, kmers string) string {
	return strings.Join([]string{flag, read, taxid, "150", kmers}, "\t")
}
