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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stroehleina/frakka/frakka/cmd/kraken"
	prettytable "github.com/tatsushid/go-prettytable"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize read counts and median confidence scores of species",
	Long: `Summarize read counts and median confidence scores of species

Pairs of Kraken2 report and output files are given the same way as
"frakka score". For each pair, species with reads of confidence scores
not smaller than -s/--score are shown in an aligned table with the read
count, its percentage among all counted reads of the pair, and the
median score.

  1. Species with fewer reads than --min-reads are not shown.
  2. Species with fewer reads than --other-below are merged into one
     "Other" row, whose median score is shown as "-".

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		if len(args) > 0 {
			checkError(fmt.Errorf("no positional arguments needed, please use -k/-K, -f/--fof, or -I/--in-dir"))
		}

		threshold := getScoreThreshold(cmd)
		taxidDisplay := getFlagBool(cmd, "taxid")
		minReads := getFlagNonNegativeInt(cmd, "min-reads")
		otherBelow := getFlagNonNegativeInt(cmd, "other-below")
		outFile := getFlagString(cmd, "out-file")
		if !isStdout(outFile) {
			outFile = expandPath(outFile)
		}

		sortBy := strings.ToLower(getFlagString(cmd, "sort-by"))
		switch sortBy {
		case kraken.SortByCount, kraken.SortByName:
		default:
			checkError(fmt.Errorf("invalid value for --sort-by, available values: count, name"))
		}

		logk := krakenLogger(opt)

		pairs, err := resolvePairs(getPairSource(cmd), logk)
		checkError(err)

		kopt := &kraken.Options{
			Threshold:    threshold,
			Counts:       true,
			TaxidDisplay: taxidDisplay,
			SortBy:       sortBy,
		}

		results := make([]*kraken.Result, 0, len(pairs))
		for _, pair := range pairs {
			if opt.Verbose || opt.Log2File {
				log.Infof("processing %s", pair)
			}
			result, err := kraken.ProcessPair(pair, kopt, logk)
			checkError(errors.Wrap(err, pair.String()))
			results = append(results, result)
		}

		tbl, err := summaryTable(results, taxidDisplay, minReads, otherBelow)
		checkError(err)

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(strings.ToLower(outFile), ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		checkError(writeSummary(outfh, tbl))
	},
}

// summaryTable formats count records of all pairs into one table.
func summaryTable(results []*kraken.Result, taxidDisplay bool, minReads int, otherBelow int) (*prettytable.Table, error) {
	species := "species"
	trueSpecies := "true species"
	if taxidDisplay {
		species = "taxid"
		trueSpecies = "true taxid"
	}
	tbl, err := prettytable.NewTable([]prettytable.Column{
		{Header: "file"},
		{Header: trueSpecies},
		{Header: species},
		{Header: "reads", AlignRight: true},
		{Header: "percentage", AlignRight: true},
		{Header: "median score", AlignRight: true},
	}...)
	if err != nil {
		return nil, err
	}
	tbl.Separator = "  "

	var total int
	var median string
	for _, result := range results {
		total = 0
		for _, r := range result.Records {
			total += r.ReadCount
		}

		for _, r := range kraken.Collapse(result.Records, minReads, otherBelow) {
			if r.Merged > 0 {
				median = "-"
			} else {
				median = fmt.Sprintf("%.3f", r.MedianScore)
			}
			tbl.AddRow(
				r.File,
				r.TrueSpecies,
				r.Called,
				humanize.Comma(int64(r.ReadCount)),
				fmt.Sprintf("%.2f%%", float64(r.ReadCount)/float64(total)*100),
				median,
			)
		}
	}
	return tbl, nil
}

func writeSummary(w io.Writer, tbl *prettytable.Table) error {
	_, err := w.Write(tbl.Bytes())
	return errors.Wrap(err, "fail to write summary table")
}

func init() {
	RootCmd.AddCommand(summaryCmd)

	addPairFlags(summaryCmd)

	summaryCmd.Flags().IntP("min-reads", "m", 1, `minimum number of reads of a species to show`)
	summaryCmd.Flags().IntP("other-below", "", 0, `merge species with fewer reads than this into "Other", 0 for no merging`)
	summaryCmd.Flags().StringP("sort-by", "", "count", `sort species by "count" (descending) or "name"`)
	summaryCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout), with ".gz" suffix for gzipped output`)
}
