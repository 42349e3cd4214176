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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
	"github.com/stroehleina/frakka/frakka/cmd/kraken"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute confidence scores of reads classified by Kraken2",
	Long: `Compute confidence scores of reads classified by Kraken2

Input:
  Pairs of Kraken2 report (--report) and standard output (--output) files,
  given in one of three ways:
    1. -k/--kreport and -K/--kout, comma-separated lists in the same order.
    2. -f/--fof, a tab-delimited file with columns of report, output,
       and optionally the true/known species.
    3. -I/--in-dir, a directory with files sharing the same prefix,
       e.g., sample1.kreport and sample1.kraken.
  Input files can be compressed (gzip, xz, zstd, bzip2).

Confidence score:
  The score of a read is the fraction of informative k-mers (excluding
  ambiguous ones, "A") assigned to the TaxId the read is classified to.
  For paired-end reads, the score is the mean of the fractions of both
  mates, and a mate without informative k-mers is left out.
  Unclassified reads and reads without informative k-mers are skipped.

Output:
  1. Per-read scores (default):
       file, true_spec, K_spec, read_id, score
  2. Per-species read counts and median scores (-c/--counts):
       file, true_spec, K_spec, read_count, median_score
  Only reads classified at the species rank (S, or S1 for GTDB-derived
  reports) are reported. Species are printed as TaxIds with -t/--taxid.

  Results are written to stdout or a file (-o/--out-file, ".gz" for gzip
  output). With -O/--out-dir, a table and a run info file (YAML) with
  statistics of each pair of files are written into the directory.

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

		var err error

		if len(args) > 0 {
			checkError(fmt.Errorf("no positional arguments needed, please use -k/-K, -f/--fof, or -I/--in-dir"))
		}

		threshold := getScoreThreshold(cmd)
		counts := getFlagBool(cmd, "counts")
		taxidDisplay := getFlagBool(cmd, "taxid")
		noHeaderRow := getFlagBool(cmd, "no-header-row")
		showProgress := getFlagBool(cmd, "progress")

		delimiter, err := unescapeDelimiter(getFlagString(cmd, "delimiter"))
		checkError(err)
		if delimiter == "" {
			checkError(fmt.Errorf("value of -d/--delimiter should not be empty"))
		}

		sortBy := strings.ToLower(getFlagString(cmd, "sort-by"))
		switch sortBy {
		case kraken.SortByNone, kraken.SortByCount, kraken.SortByName:
		default:
			checkError(fmt.Errorf("invalid value for --sort-by, available values: count, name"))
		}
		if sortBy != kraken.SortByNone && !counts {
			log.Warningf("--sort-by only works with -c/--counts, ignored")
			sortBy = kraken.SortByNone
		}

		outFile := getFlagString(cmd, "out-file")
		outDir := getFlagString(cmd, "out-dir")
		prefix := getFlagString(cmd, "prefix")
		force := getFlagBool(cmd, "force")
		if outDir != "" {
			if !isStdout(outFile) {
				checkError(fmt.Errorf("flags -o/--out-file and -O/--out-dir are incompatible"))
			}
			if prefix == "" {
				checkError(fmt.Errorf("value of -x/--prefix should not be empty"))
			}
			outDir = expandPath(outDir)
			outFile = filepath.Join(outDir, prefix+tableSuffix(delimiter))
		} else if !isStdout(outFile) {
			outFile = expandPath(outFile)
		}

		// ---------------------------------------------------------------

		if opt.Verbose || opt.Log2File {
			log.Infof("frakka v%s", VERSION)
			log.Info("  https://github.com/stroehleina/frakka")
			log.Info()

			log.Info("checking input files ...")
		}

		logk := krakenLogger(opt)
		if showProgress {
			logging.SetLevel(logging.WARNING, "kraken")
		}

		pairs, err := resolvePairs(getPairSource(cmd), logk)
		checkError(err)

		for _, pair := range pairs {
			if outFile == pair.Report || outFile == pair.Classification {
				checkError(fmt.Errorf("out file should not be one of the input files: %s", outFile))
			}
		}

		if opt.Verbose || opt.Log2File {
			log.Infof("  %d pair(s) of files given", len(pairs))
			log.Info()
			if counts {
				log.Infof("counting reads with confidence scores >= %v ...", threshold)
			} else {
				log.Infof("computing confidence scores of reads (>= %v) ...", threshold)
			}
		}

		// ---------------------------------------------------------------

		if outDir != "" {
			makeOutDir(outDir, force)
		}

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(strings.ToLower(outFile), ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		writer := kraken.NewWriter(outfh, &kraken.Formatter{
			Delimiter:    delimiter,
			Counts:       counts,
			TaxidDisplay: taxidDisplay,
		})
		writer.NoHeader = noHeaderRow

		kopt := &kraken.Options{
			Threshold:    threshold,
			Counts:       counts,
			TaxidDisplay: taxidDisplay,
			SortBy:       sortBy,
		}

		info := RunInfo{
			Version:        VERSION,
			Mode:           modeName(counts),
			ScoreThreshold: threshold,
			Taxid:          taxidDisplay,
			Delimiter:      delimiter,
			SortBy:         sortBy,
			Output:         outFile,
		}

		processPairs(pairs, showProgress, func(pair kraken.FilePair) {
			if (opt.Verbose || opt.Log2File) && !showProgress {
				log.Infof("processing %s", pair)
			}
			result, err := kraken.ProcessPair(pair, kopt, logk)
			checkError(errors.Wrap(err, pair.String()))

			checkError(writer.WriteResult(result))
			info.Add(result)
		})

		if outDir != "" {
			infoFile := filepath.Join(outDir, prefix+runInfoSuffix)
			_, err = info.WriteTo(infoFile)
			checkError(err)
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("%s", info)
				log.Infof("results saved to: %s", outFile)
				log.Infof("run info saved to: %s", infoFile)
			}
		}
	},
}

// processPairs calls fn for every pair in order, optionally with a progress bar.
func processPairs(pairs []kraken.FilePair, showProgress bool, fn func(kraken.FilePair)) {
	if !showProgress {
		for _, pair := range pairs {
			fn(pair)
		}
		return
	}

	pbs := mpb.New(mpb.WithWidth(79), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(int64(len(pairs)),
		mpb.BarStyle("[=>-]<+"),
		mpb.PrependDecorators(
			decor.Name("processing file: ", decor.WC{W: len("processing file: ") + 1, C: decor.DidentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	for _, pair := range pairs {
		start := time.Now()
		fn(pair)
		bar.Increment()
		bar.DecoratorEwmaUpdate(time.Since(start))
	}
	pbs.Wait()
}

func modeName(counts bool) string {
	if counts {
		return "counts"
	}
	return "reads"
}

// tableSuffix returns the file extension of a table with the delimiter.
func tableSuffix(delimiter string) string {
	switch delimiter {
	case "\t":
		return ".tsv"
	case ",":
		return ".csv"
	default:
		return ".txt"
	}
}

func init() {
	RootCmd.AddCommand(scoreCmd)

	addPairFlags(scoreCmd)

	scoreCmd.Flags().BoolP("counts", "c", false, `output per-species read counts and median scores instead of per-read scores`)
	scoreCmd.Flags().StringP("delimiter", "d", `\t`, `field delimiter of output`)
	scoreCmd.Flags().StringP("sort-by", "", "", `sort records of -c/--counts by "count" (descending) or "name", default: order of appearance`)
	scoreCmd.Flags().BoolP("no-header-row", "H", false, `do not print header row`)

	scoreCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout), with ".gz" suffix for gzipped output`)
	scoreCmd.Flags().StringP("out-dir", "O", "", `output directory for a table and a run info file, incompatible with -o/--out-file`)
	scoreCmd.Flags().StringP("prefix", "x", "frakka", `prefix of files in -O/--out-dir`)
	scoreCmd.Flags().BoolP("force", "", false, `overwrite existing output directory`)
	scoreCmd.Flags().BoolP("progress", "", false, `show a progress bar, information of each file is not printed`)
}
